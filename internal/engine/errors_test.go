package engine

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want ErrorCode
	}{
		{
			name: "parse error classifies as syntax",
			msg:  "Parse error on line 3",
			want: CodeSyntax,
		},
		{
			name: "lexical error",
			msg:  "Lexical error on line 1. Unrecognized text.",
			want: CodeSyntax,
		},
		{
			name: "no diagram type",
			msg:  "No diagram type detected matching given configuration",
			want: CodeNoType,
		},
		{
			name: "unknown diagram type",
			msg:  "Trying to draw unknown diagram type",
			want: CodeNoType,
		},
		{
			name: "cannot read properties of undefined",
			msg:  "TypeError: Cannot read properties of undefined (reading 'type')",
			want: CodeParse,
		},
		{
			name: "failed to parse",
			msg:  "Failed to parse diagram body",
			want: CodeParse,
		},
		{
			name: "reference to undefined element",
			msg:  "element 'foo' is not defined",
			want: CodeReference,
		},
		{
			name: "duplicate definition",
			msg:  "participant Bob is already defined",
			want: CodeDuplicate,
		},
		{
			name: "unrelated message",
			msg:  "connection reset by peer",
			want: CodeUnknown,
		},
		{
			name: "case insensitive",
			msg:  "PARSE ERROR near token",
			want: CodeSyntax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(errors.New(tt.msg))
			if got.Code != tt.want {
				t.Errorf("Classify(%q).Code = %s, want %s", tt.msg, got.Code, tt.want)
			}
			if got.Message != tt.msg {
				t.Errorf("Classify(%q).Message = %q, want original message", tt.msg, got.Message)
			}
		})
	}
}

func TestClassifyOrder(t *testing.T) {
	// "no diagram type" must beat the later "undefined" rule even when both
	// substrings appear.
	got := Classify(errors.New("unknown diagram type: undefined"))
	if got.Code != CodeNoType {
		t.Errorf("Code = %s, want %s", got.Code, CodeNoType)
	}
}

func TestRenderErrorUnwrap(t *testing.T) {
	base := errors.New("Parse error on line 3")
	classified := Classify(base)
	if !errors.Is(classified, base) {
		t.Error("classified error must wrap the original")
	}
}

func TestUserMessageFallback(t *testing.T) {
	unknown := Classify(errors.New("something nobody anticipated"))
	if unknown.UserMessage() == "" {
		t.Error("UNKNOWN must map to a generic user message")
	}
	syntax := Classify(errors.New("Parse error on line 3"))
	if syntax.UserMessage() == unknown.UserMessage() {
		t.Error("classified codes must not share the generic fallback message")
	}
}
