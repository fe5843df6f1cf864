package github

import (
	"fmt"
	"strings"

	"github.com/agentstation/stargazer/pkg/constants"
	"github.com/agentstation/stargazer/pkg/errors"
)

// RepoRef identifies a repository by owner and name. It carries no state.
type RepoRef struct {
	Owner string `json:"owner" yaml:"owner"`
	Name  string `json:"name" yaml:"name"`
}

// NewRepoRef returns a validated RepoRef.
func NewRepoRef(owner, name string) (RepoRef, error) {
	ref := RepoRef{Owner: owner, Name: name}
	if err := ref.Validate(); err != nil {
		return RepoRef{}, err
	}
	return ref, nil
}

// ParseRepoRef parses an "owner/name" string.
func ParseRepoRef(s string) (RepoRef, error) {
	owner, name, ok := strings.Cut(s, "/")
	if !ok || strings.Contains(name, "/") {
		return RepoRef{}, errors.NewValidationError("repository", s, "must be in the form OWNER/REPO")
	}
	return NewRepoRef(owner, name)
}

// String returns "owner/name".
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// Validate checks that both parts are usable as a single URL path segment.
func (r RepoRef) Validate() error {
	if err := validateSegment("owner", r.Owner); err != nil {
		return err
	}
	return validateSegment("repo", r.Name)
}

func validateSegment(field, value string) error {
	switch {
	case value == "":
		return errors.NewValidationError(field, value, "is required")
	case len(value) > constants.MaxNameLength:
		return errors.NewValidationError(field, value,
			fmt.Sprintf("must be at most %d characters", constants.MaxNameLength))
	case value == "." || value == "..":
		return errors.NewValidationError(field, value, "is not a valid name")
	}
	for _, c := range value {
		if !isNameChar(c) {
			return errors.NewValidationError(field, value,
				fmt.Sprintf("contains invalid character %q", c))
		}
	}
	return nil
}

func isNameChar(c rune) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
