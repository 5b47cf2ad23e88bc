package verification

import (
	"regexp"
	"strings"
	"time"

	verificationerrors "ippis-portal/internal/verification/errors"
)

var ninPattern = regexp.MustCompile(`^\d{11}$`)

const dateLayout = "2006-01-02"

type VerifyNINRequest struct {
	NIN         string `json:"nin" binding:"required"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
}

func (r *VerifyNINRequest) Validate() error {
	r.NIN = strings.TrimSpace(r.NIN)
	if !ninPattern.MatchString(r.NIN) {
		return verificationerrors.ErrInvalidNIN
	}
	r.DateOfBirth = strings.TrimSpace(r.DateOfBirth)
	if r.DateOfBirth != "" {
		if _, err := time.Parse(dateLayout, r.DateOfBirth); err != nil {
			return verificationerrors.ErrInvalidDateOfBirth
		}
	}
	return nil
}

// Identity is the provider's record for a NIN.
type Identity struct {
	NIN         string `json:"nin"`
	FirstName   string `json:"first_name"`
	MiddleName  string `json:"middle_name,omitempty"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
}

func (i Identity) FullName() string {
	return strings.Join(strings.Fields(i.FirstName+" "+i.MiddleName+" "+i.LastName), " ")
}

type FieldMatch struct {
	FirstName   bool  `json:"first_name"`
	LastName    bool  `json:"last_name"`
	DateOfBirth *bool `json:"date_of_birth,omitempty"`
}

type Result struct {
	NIN        string     `json:"nin"`
	Verified   bool       `json:"verified"`
	Match      FieldMatch `json:"match"`
	FullName   string     `json:"full_name,omitempty"`
	VerifiedAt time.Time  `json:"verified_at"`
}

// lookupEntry is what gets cached; Found=false records a provider 404.
type lookupEntry struct {
	Found    bool      `json:"found"`
	Identity Identity  `json:"identity"`
	At       time.Time `json:"at"`
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Compare builds the result for req against the provider record. date_of_birth only counts
// when the caller supplied one.
func Compare(req VerifyNINRequest, entry lookupEntry) Result {
	res := Result{NIN: req.NIN, VerifiedAt: entry.At}
	if !entry.Found {
		return res
	}

	res.FullName = entry.Identity.FullName()
	res.Match.FirstName = normalizeName(req.FirstName) == normalizeName(entry.Identity.FirstName)
	res.Match.LastName = normalizeName(req.LastName) == normalizeName(entry.Identity.LastName)
	res.Verified = res.Match.FirstName && res.Match.LastName

	if req.DateOfBirth != "" {
		dob := req.DateOfBirth == strings.TrimSpace(entry.Identity.DateOfBirth)
		res.Match.DateOfBirth = &dob
		res.Verified = res.Verified && dob
	}
	return res
}
