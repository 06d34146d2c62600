package usecase

import "time"

// accessTokenMargin keeps us from handing out a credential that dies
// mid-request: anything expiring within this window counts as expired.
const accessTokenMargin = 5 * time.Minute

// AccessTokenExpired reports whether a stored Google access-token expiry
// (RFC 3339, UTC) is missing, unparsable, or within the safety margin of
// now. Unreadable input is treated as expired.
func AccessTokenExpired(expiry string, now time.Time) bool {
	if expiry == "" {
		return true
	}
	t, err := time.Parse(time.RFC3339, expiry)
	if err != nil {
		return true
	}
	return !t.After(now.Add(accessTokenMargin))
}

// SessionExpired reports whether the application session cutoff has passed.
// No margin here: the session is valid up to the instant of its expiry.
func SessionExpired(expiry string, now time.Time) bool {
	if expiry == "" {
		return true
	}
	t, err := time.Parse(time.RFC3339, expiry)
	if err != nil {
		return true
	}
	return !now.Before(t)
}
