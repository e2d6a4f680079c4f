package errors_test

import (
	stderrors "errors"
	"testing"

	cssderrors "github.com/MeKo-Christian/cssdep/errors"
)

func TestSelectorError(t *testing.T) {
	t.Parallel()

	t.Run("Error with all fields", func(t *testing.T) {
		t.Parallel()
		err := &cssderrors.SelectorError{
			Selector: "div > .class[invalid",
			Position: 15,
			Message:  "unclosed attribute selector",
		}

		expected := `invalid selector "div > .class[invalid" at position 15: unclosed attribute selector`
		if got := err.Error(); got != expected {
			t.Errorf("Error() = %q, want %q", got, expected)
		}
	})

	t.Run("Error at position 0", func(t *testing.T) {
		t.Parallel()
		err := &cssderrors.SelectorError{
			Selector: "*invalid",
			Position: 0,
			Message:  "unexpected character at start",
		}

		expected := `invalid selector "*invalid" at position 0: unexpected character at start`
		if got := err.Error(); got != expected {
			t.Errorf("Error() = %q, want %q", got, expected)
		}
	})
}

func TestUnsupportedConstructError(t *testing.T) {
	t.Parallel()

	err := &cssderrors.UnsupportedConstructError{
		Selector:  "e:lang(en)",
		Construct: "lang",
	}
	expected := `unsupported selector construct "lang" in "e:lang(en)"`
	if got := err.Error(); got != expected {
		t.Errorf("Error() = %q, want %q", got, expected)
	}
}

func TestBackendError(t *testing.T) {
	t.Parallel()

	inner := stderrors.New("timeout")
	err := &cssderrors.BackendError{Query: "overlap(.a, .b)", Err: inner}

	expected := "smt backend failed on overlap(.a, .b): timeout"
	if got := err.Error(); got != expected {
		t.Errorf("Error() = %q, want %q", got, expected)
	}
	if !stderrors.Is(err, inner) {
		t.Error("errors.Is should unwrap to the backend's underlying error")
	}
}

func TestCacheError(t *testing.T) {
	t.Parallel()

	err := &cssderrors.CacheError{Detail: "automaton missing for cached key"}
	if !stderrors.Is(err, cssderrors.ErrCacheInconsistency) {
		t.Error("errors.Is should match ErrCacheInconsistency")
	}
	expected := "cache inconsistency: automaton missing for cached key"
	if got := err.Error(); got != expected {
		t.Errorf("Error() = %q, want %q", got, expected)
	}
}

func TestCSSParseError(t *testing.T) {
	t.Parallel()

	t.Run("with line", func(t *testing.T) {
		t.Parallel()
		err := &cssderrors.CSSParseError{Line: 12, Message: "unterminated declaration block"}
		expected := "invalid stylesheet at line 12: unterminated declaration block"
		if got := err.Error(); got != expected {
			t.Errorf("Error() = %q, want %q", got, expected)
		}
	})

	t.Run("without line", func(t *testing.T) {
		t.Parallel()
		err := &cssderrors.CSSParseError{Message: "empty input"}
		expected := "invalid stylesheet: empty input"
		if got := err.Error(); got != expected {
			t.Errorf("Error() = %q, want %q", got, expected)
		}
	})
}
