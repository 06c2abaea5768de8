// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package contest implements the submission lifecycle and similarity judging.

# Phases

The latest settings row holds two flags, giving four phases:

	open      submissions accepted, results pending
	closed    submissions rejected, results pending
	judged    submissions rejected, results available
	reopened  submissions accepted again, results pending until re-judged

# Operations

	svc := contest.NewService(subs, settings, gateway, contest.Config{...})

	res, err := svc.Submit(ctx, text, authorName)      // id, token, message
	open, err := svc.ToggleSubmissionsOpen(ctx)
	jr, err := svc.RunJudging(ctx, target, k)          // closed phases only
	out, err := svc.CheckResult(ctx, id, token)        // judged phase only

Judging embeds the target once, ranks all stored vectors by inner product
(ties by ascending id), and replaces every winner mark in one transaction
that also sets the judged flag. Running it twice over the same data yields
the same winners.

# Errors

Every returned error matches one sentinel with errors.Is: ErrValidation
(as *ValidationError), ErrContestClosed, ErrContestStillOpen,
ErrNotJudgedYet, ErrDuplicateText, ErrEmbeddingUnavailable, ErrNotFound,
ErrStore. ErrNotFound never says whether the id or the token was wrong.
*/
package contest
