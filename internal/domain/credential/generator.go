// Package credential generates the password and security questions handed
// to customers when an Apple ID is provisioned for them.
package credential

import (
	"crypto/rand"
	"io"
	"math/big"
	"strconv"
)

// password character classes
const (
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	digitChars   = "0123456789"
	symbolChars  = "@#$%&*"
	allPassChars = upperChars + lowerChars + digitChars + symbolChars

	// PasswordLength is the length of every generated password.
	PasswordLength = 10
)

// Fixed security questions, in the order they are returned.
const (
	QuestionColor  = "What is your favorite color?"
	QuestionCity   = "In which city were you born?"
	QuestionNumber = "What is your lucky number?"
)

var (
	colors = []string{"Blue", "Red", "Green", "Black", "White"}
	cities = []string{"Tehran", "Isfahan", "Shiraz", "Mashhad", "Tabriz"}
)

// SecurityQuestions holds three question/answer pairs.
type SecurityQuestions struct {
	Question1 string `json:"question1"`
	Answer1   string `json:"answer1"`
	Question2 string `json:"question2"`
	Answer2   string `json:"answer2"`
	Question3 string `json:"question3"`
	Answer3   string `json:"answer3"`
}

// Generator produces credentials from a random source. The zero value is not
// usable; call New.
type Generator struct {
	rand io.Reader
}

// New returns a generator backed by crypto/rand.
func New() *Generator {
	return &Generator{rand: rand.Reader}
}

// NewWithSource returns a generator reading randomness from r.
func NewWithSource(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// Password returns a PasswordLength character password containing at least
// one uppercase letter, one lowercase letter, one digit and one symbol.
func (g *Generator) Password() string {
	buf := make([]byte, PasswordLength)

	// one from each class, then fill
	buf[0] = g.pickByte(upperChars)
	buf[1] = g.pickByte(lowerChars)
	buf[2] = g.pickByte(digitChars)
	buf[3] = g.pickByte(symbolChars)

	for i := 4; i < PasswordLength; i++ {
		buf[i] = g.pickByte(allPassChars)
	}

	// Fisher-Yates
	for i := PasswordLength - 1; i > 0; i-- {
		j := g.intn(i + 1)
		buf[i], buf[j] = buf[j], buf[i]
	}

	return string(buf)
}

// SecurityQuestions returns the three fixed questions with random answers.
// The answers do not depend on name.
func (g *Generator) SecurityQuestions(name string) SecurityQuestions {
	return SecurityQuestions{
		Question1: QuestionColor,
		Answer1:   colors[g.intn(len(colors))],
		Question2: QuestionCity,
		Answer2:   cities[g.intn(len(cities))],
		Question3: QuestionNumber,
		Answer3:   strconv.Itoa(g.intn(100) + 1),
	}
}

func (g *Generator) pickByte(s string) byte {
	return s[g.intn(len(s))]
}

// intn returns a uniform int in [0, n). It panics if the random source fails.
func (g *Generator) intn(n int) int {
	v, err := rand.Int(g.rand, big.NewInt(int64(n)))
	if err != nil {
		panic("credential: random source failed: " + err.Error())
	}
	return int(v.Int64())
}
