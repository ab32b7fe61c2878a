package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		sep  rune
		want []string
	}{
		{name: "plain fields", line: "a,b,c", sep: ',', want: []string{"a", "b", "c"}},
		{name: "quoted separator", line: `a,"b,c",d`, sep: ',', want: []string{"a", "b,c", "d"}},
		{name: "trailing separator", line: "a,b,", sep: ',', want: []string{"a", "b", ""}},
		{name: "empty line", line: "", sep: ',', want: []string{""}},
		{name: "fields are trimmed", line: "  a , b\t,c ", sep: ',', want: []string{"a", "b", "c"}},
		{name: "doubled quote vanishes", line: `"say ""hi""",x`, sep: ',', want: []string{"say hi", "x"}},
		{name: "unterminated quote swallows rest", line: `a,"b,c`, sep: ',', want: []string{"a", "b,c"}},
		{name: "semicolon separator", line: "1;2;\"3;4\"", sep: ';', want: []string{"1", "2", "3;4"}},
		{name: "non-ascii content", line: "Æble,Øst", sep: ',', want: []string{"Æble", "Øst"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLine(tt.line, tt.sep))
		})
	}
}
