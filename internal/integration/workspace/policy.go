package workspace

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand"
	"strconv"
	"strings"
)

// EmailPolicy derives a Workspace handle from a volunteer's name. Spaces
// and punctuation are stripped so "Minh Uyen Hoang" becomes
// "minhuyenhoang@<domain>".
type EmailPolicy struct {
	UseFirstAndLastName    bool
	Separator              string
	AddUniqueNumericSuffix bool
	Domain                 string
}

// BuildEmail generates the primary email for a volunteer.
func (p EmailPolicy) BuildEmail(firstName, lastName string) string {
	base := strings.ToLower(firstName)
	if p.UseFirstAndLastName {
		base += p.Separator + strings.ToLower(lastName)
	}
	if p.AddUniqueNumericSuffix {
		// Two digit suffix keeps collisions between common names rare.
		base += strconv.Itoa(10 + mathrand.Intn(90))
	}
	var handle strings.Builder
	for _, r := range base {
		if isAlphanumeric(r) {
			handle.WriteRune(r)
		}
	}
	return handle.String() + "@" + p.Domain
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// PasswordPolicy controls generated initial passwords.
type PasswordPolicy struct {
	Length                    int
	ChangePasswordAtNextLogin bool
}

const (
	minPasswordLength = 8
	maxPasswordLength = 64

	passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GeneratePassword returns a random alphanumeric password. Lengths outside
// 8..64 fall back to 8.
func (p PasswordPolicy) GeneratePassword() (string, error) {
	length := p.Length
	if length < minPasswordLength || length > maxPasswordLength {
		length = minPasswordLength
	}
	var b strings.Builder
	b.Grow(length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(passwordAlphabet[n.Int64()])
	}
	return b.String(), nil
}
