package otp

import (
	"crypto/rand"
	"io"
	"math/big"
	"strings"

	"github.com/shandysiswandi/sectools/internal/pkg/goerror"
)

// DefaultCodeLength is the length of codes from NewCodeGenerator(0).
const DefaultCodeLength = 6

const digits = "0123456789"

// CodeGenerator produces random decimal codes of a fixed length.
//
// Each digit is drawn uniformly with crypto/rand, so leading zeros occur and
// the code must be handled as a string.
type CodeGenerator struct {
	length int
	random io.Reader
}

// NewCodeGenerator returns a generator for codes of the given length. Zero
// selects DefaultCodeLength; a negative length is an InvalidArgument.
func NewCodeGenerator(length int) (*CodeGenerator, error) {
	if length < 0 {
		return nil, goerror.NewInvalidArgument("code length cannot be less than 0")
	}
	if length == 0 {
		length = DefaultCodeLength
	}

	return &CodeGenerator{length: length, random: rand.Reader}, nil
}

// Length returns the number of digits in each code.
func (g *CodeGenerator) Length() int {
	return g.length
}

// Generate returns a fresh code.
func (g *CodeGenerator) Generate() (string, error) {
	var sb strings.Builder
	sb.Grow(g.length)

	base := big.NewInt(int64(len(digits)))
	for i := 0; i < g.length; i++ {
		n, err := rand.Int(g.random, base)
		if err != nil {
			return "", goerror.NewServer(err)
		}
		sb.WriteByte(digits[n.Int64()])
	}

	return sb.String(), nil
}
