package auth

import (
	"bufio"
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tech-arch1tect/accounts/config"
)

const (
	CodePasswordTooShort         = "password_too_short"
	CodePasswordTooLong          = "password_too_long"
	CodePasswordTooCommon        = "password_too_common"
	CodePasswordTooSimilar       = "password_too_similar"
	CodePasswordMissingUppercase = "password_missing_uppercase"
	CodePasswordMissingLowercase = "password_missing_lowercase"
	CodePasswordMissingNumber    = "password_missing_number"
	CodePasswordMissingSpecial   = "password_missing_special"
)

const maxSimilarity = 0.7

//go:embed common_passwords.txt
var commonPasswordsList string

var attributeSeparator = regexp.MustCompile(`\W+`)

type Violation struct {
	Code    string
	Message string
}

// PolicyError lists every rule a password failed.
type PolicyError struct {
	Violations []Violation
}

func (e *PolicyError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *PolicyError) Codes() []string {
	codes := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		codes = append(codes, v.Code)
	}
	return codes
}

type Policy struct {
	cfg    config.AuthConfig
	common map[string]struct{}
}

func NewPolicy(cfg config.AuthConfig) *Policy {
	return &Policy{
		cfg:    cfg,
		common: loadCommonPasswords(commonPasswordsList),
	}
}

// Validate checks password against the configured rules. Attributes such as
// the user's name and email are used for the similarity rule.
func (p *Policy) Validate(password string, attributes ...string) error {
	var violations []Violation
	add := func(code, format string, args ...any) {
		violations = append(violations, Violation{Code: code, Message: fmt.Sprintf(format, args...)})
	}

	length := utf8.RuneCountInString(password)
	if length < p.cfg.MinLength {
		add(CodePasswordTooShort, "This password is too short. It must contain at least %d characters.", p.cfg.MinLength)
	}
	switch {
	case p.cfg.MaxLength > 0 && length > p.cfg.MaxLength:
		add(CodePasswordTooLong, "This password is too long. It must contain at most %d characters.", p.cfg.MaxLength)
	case len(password) > config.MaxPasswordBytes:
		add(CodePasswordTooLong, "This password is too long. It must be at most %d bytes.", config.MaxPasswordBytes)
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	if p.cfg.RequireUpper && !hasUpper {
		add(CodePasswordMissingUppercase, "This password must contain at least one uppercase letter.")
	}
	if p.cfg.RequireLower && !hasLower {
		add(CodePasswordMissingLowercase, "This password must contain at least one lowercase letter.")
	}
	if p.cfg.RequireNumber && !hasNumber {
		add(CodePasswordMissingNumber, "This password must contain at least one number.")
	}
	if p.cfg.RequireSpecial && !hasSpecial {
		add(CodePasswordMissingSpecial, "This password must contain at least one special character.")
	}

	if p.cfg.RejectCommon && p.IsCommon(password) {
		add(CodePasswordTooCommon, "This password is too common.")
	}

	if p.cfg.RejectSimilar {
		if attr, ok := p.similarAttribute(password, attributes); ok {
			add(CodePasswordTooSimilar, "The password is too similar to the %s.", attr)
		}
	}

	if len(violations) > 0 {
		return &PolicyError{Violations: violations}
	}
	return nil
}

func (p *Policy) IsCommon(password string) bool {
	_, ok := p.common[strings.ToLower(strings.TrimSpace(password))]
	return ok
}

func (p *Policy) similarAttribute(password string, attributes []string) (string, bool) {
	lowered := strings.ToLower(password)
	for _, attr := range attributes {
		if attr == "" {
			continue
		}
		value := strings.ToLower(attr)
		parts := append(attributeSeparator.Split(value, -1), value)
		for _, part := range parts {
			if part == "" {
				continue
			}
			if similarity(lowered, part) >= maxSimilarity {
				return describeAttribute(attr), true
			}
		}
	}
	return "", false
}

func describeAttribute(attr string) string {
	if strings.Contains(attr, "@") {
		return "email"
	}
	return "name"
}

// similarity returns 2*M/T where M is the length of the longest common
// subsequence of a and b and T is their combined length.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			switch {
			case ra[i-1] == rb[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return 2 * float64(prev[len(rb)]) / float64(total)
}

func loadCommonPasswords(list string) map[string]struct{} {
	out := make(map[string]struct{})
	scanner := bufio.NewScanner(strings.NewReader(list))
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out[line] = struct{}{}
	}
	return out
}
