// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables for the given database type
("sqlite" or "postgres"):

	if err := db.CreateSchema(conn, db.TypePostgres); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes,
and only seeds the settings table when it is empty.

# Tables

  - submission: one row per contest entry, including its embedding
  - setting: append-only phase history; the max setting_id is current

# Constraints

  - submission.text is UNIQUE; duplicate text fails the insert
  - submission.id is auto-increment and never reused
  - setting.setting_id is written as latest+1 by the application

# Drivers

DriverName maps the database type to the registered driver:

	sqlite   → modernc.org/sqlite
	postgres → github.com/lib/pq
*/
package db
