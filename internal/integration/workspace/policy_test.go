package workspace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEmail(t *testing.T) {
	t.Run("first name only", func(t *testing.T) {
		p := EmailPolicy{Domain: "corp.example.com"}
		assert.Equal(t, "ada@corp.example.com", p.BuildEmail("Ada", "Lovelace"))
	})

	t.Run("first and last name", func(t *testing.T) {
		p := EmailPolicy{UseFirstAndLastName: true, Domain: "corp.example.com"}
		assert.Equal(t, "adalovelace@corp.example.com", p.BuildEmail("Ada", "Lovelace"))
	})

	t.Run("strips spaces and punctuation", func(t *testing.T) {
		p := EmailPolicy{UseFirstAndLastName: true, Domain: "corp.example.com"}
		assert.Equal(t, "minhuyenhoang@corp.example.com", p.BuildEmail("Minh Uyen", "Hoang"))
		assert.Equal(t, "oconnor@corp.example.com", p.BuildEmail("O'Connor", ""))
	})

	t.Run("separator survives only when alphanumeric", func(t *testing.T) {
		p := EmailPolicy{UseFirstAndLastName: true, Separator: ".", Domain: "corp.example.com"}
		assert.Equal(t, "adalovelace@corp.example.com", p.BuildEmail("Ada", "Lovelace"))
	})

	t.Run("numeric suffix lands between 10 and 99", func(t *testing.T) {
		p := EmailPolicy{AddUniqueNumericSuffix: true, Domain: "corp.example.com"}
		email := p.BuildEmail("Ada", "")
		handle, _, ok := strings.Cut(email, "@")
		require.True(t, ok)
		require.Len(t, handle, len("ada")+2)
		suffix := handle[len("ada"):]
		assert.GreaterOrEqual(t, suffix, "10")
		assert.LessOrEqual(t, suffix, "99")
	})
}

func TestGeneratePassword(t *testing.T) {
	t.Run("honors a valid length", func(t *testing.T) {
		pw, err := PasswordPolicy{Length: 16}.GeneratePassword()
		require.NoError(t, err)
		assert.Len(t, pw, 16)
	})

	t.Run("lengths outside 8..64 fall back to 8", func(t *testing.T) {
		for _, length := range []int{0, 7, 65, -3} {
			pw, err := PasswordPolicy{Length: length}.GeneratePassword()
			require.NoError(t, err)
			assert.Len(t, pw, 8)
		}
	})

	t.Run("stays alphanumeric", func(t *testing.T) {
		pw, err := PasswordPolicy{Length: 64}.GeneratePassword()
		require.NoError(t, err)
		for _, r := range pw {
			assert.True(t, isAlphanumeric(r), "unexpected rune %q", r)
		}
	})
}
