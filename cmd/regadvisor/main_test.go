package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Pivot12/SimFreeAutoRegAdvisor2/advisor"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{advisor.ErrNoData, 2},
		{fmt.Errorf("ask: %w", advisor.ErrNoData), 2},
		{advisor.ErrSynthesisUnavailable, 1},
		{errors.New("listen tcp: address in use"), 1},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
