package credential

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
)

func TestPasswordLength(t *testing.T) {
	g := New()
	for iter := 0; iter < 100; iter++ {
		if pw := g.Password(); len(pw) != PasswordLength {
			t.Fatalf("Password() = %q, length %d, want %d", pw, len(pw), PasswordLength)
		}
	}
}

func TestPasswordCharacterClasses(t *testing.T) {
	g := New()

	for iter := 0; iter < 1000; iter++ {
		pw := g.Password()
		var hasUpper, hasLower, hasDigit, hasSymbol bool
		for i := 0; i < len(pw); i++ {
			c := pw[i]
			switch {
			case c >= 'A' && c <= 'Z':
				hasUpper = true
			case c >= 'a' && c <= 'z':
				hasLower = true
			case c >= '0' && c <= '9':
				hasDigit = true
			case strings.IndexByte(symbolChars, c) >= 0:
				hasSymbol = true
			default:
				t.Fatalf("password %q contains %q outside the alphabet", pw, c)
			}
		}

		if !hasUpper {
			t.Errorf("password %q missing uppercase", pw)
		}
		if !hasLower {
			t.Errorf("password %q missing lowercase", pw)
		}
		if !hasDigit {
			t.Errorf("password %q missing digit", pw)
		}
		if !hasSymbol {
			t.Errorf("password %q missing symbol", pw)
		}
	}
}

func TestPasswordShuffled(t *testing.T) {
	g := New()
	firsts := make(map[byte]bool)
	nonUpperFirst := false

	for iter := 0; iter < 1000; iter++ {
		pw := g.Password()
		firsts[pw[0]] = true
		if pw[0] < 'A' || pw[0] > 'Z' {
			nonUpperFirst = true
		}
	}

	if len(firsts) < 2 {
		t.Errorf("first character never varied: %v", firsts)
	}
	if !nonUpperFirst {
		t.Error("first character was always uppercase; class positions are not shuffled")
	}
}

func TestPasswordRandomness(t *testing.T) {
	g := New()
	seen := make(map[string]bool)
	for iter := 0; iter < 200; iter++ {
		seen[g.Password()] = true
	}
	if len(seen) < 195 {
		t.Errorf("only %d unique passwords out of 200", len(seen))
	}
}

func TestSecurityQuestions(t *testing.T) {
	g := New()

	for _, name := range []string{"", "Ali Rezaei", "سارا", "  Maryam   Ahmadi  "} {
		t.Run(name, func(t *testing.T) {
			for iter := 0; iter < 100; iter++ {
				q := g.SecurityQuestions(name)

				if q.Question1 != QuestionColor || q.Question2 != QuestionCity || q.Question3 != QuestionNumber {
					t.Fatalf("unexpected questions: %+v", q)
				}
				if !contains(colors, q.Answer1) {
					t.Errorf("answer1 %q not a known color", q.Answer1)
				}
				if !contains(cities, q.Answer2) {
					t.Errorf("answer2 %q not a known city", q.Answer2)
				}
				n, err := strconv.Atoi(q.Answer3)
				if err != nil || n < 1 || n > 100 {
					t.Errorf("answer3 %q not an integer in [1,100]", q.Answer3)
				}
			}
		})
	}
}

func TestSecurityQuestionsCoverLists(t *testing.T) {
	g := New()
	gotColors := make(map[string]bool)
	gotCities := make(map[string]bool)

	for iter := 0; iter < 500; iter++ {
		q := g.SecurityQuestions("x")
		gotColors[q.Answer1] = true
		gotCities[q.Answer2] = true
	}

	if len(gotColors) != len(colors) {
		t.Errorf("saw %d of %d colors", len(gotColors), len(colors))
	}
	if len(gotCities) != len(cities) {
		t.Errorf("saw %d of %d cities", len(gotCities), len(cities))
	}
}

func TestDeterministicSource(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42, 0x17, 0x99, 0x03}, 512)

	a := NewWithSource(bytes.NewReader(seed)).Password()
	b := NewWithSource(bytes.NewReader(seed)).Password()
	if a != b {
		t.Errorf("same source gave %q and %q", a, b)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("no entropy") }

func TestBrokenSourcePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic from failing random source")
		}
	}()
	NewWithSource(failingReader{}).Password()
}

func TestConcurrentUse(t *testing.T) {
	g := New()
	var wg sync.WaitGroup
	for iter := 0; iter < 8; iter++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for iter := 0; iter < 100; iter++ {
				if len(g.Password()) != PasswordLength {
					t.Error("bad length")
				}
				g.SecurityQuestions("name")
			}
		}()
	}
	wg.Wait()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
