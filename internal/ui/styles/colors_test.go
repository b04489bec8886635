// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/jeranaias/correspond-tui/internal/model"
)

func TestSeverityColor(t *testing.T) {
	tests := []struct {
		severity model.Severity
		want     string
	}{
		{model.SeveritySuccess, Emerald.Dark},
		{model.SeverityWarning, Amber.Dark},
		{model.SeverityError, Rose.Dark},
		{model.SeverityInfo, Blue.Dark},
	}
	for _, tc := range tests {
		if got := SeverityColor(tc.severity).Dark; got != tc.want {
			t.Errorf("SeverityColor(%s) = %s, want %s", tc.severity, got, tc.want)
		}
	}
}

func TestSeverityIndicatorsUnique(t *testing.T) {
	seen := map[string]model.Severity{}
	for _, s := range []model.Severity{model.SeverityInfo, model.SeveritySuccess, model.SeverityWarning, model.SeverityError} {
		ind := SeverityIndicator(s)
		if prev, dup := seen[ind]; dup {
			t.Errorf("%s and %s share indicator %q", prev, s, ind)
		}
		seen[ind] = s
	}
}

func TestPriorityColor(t *testing.T) {
	if PriorityColor("urgent") != Rose {
		t.Error("urgent should be rose")
	}
	if PriorityColor("high") != Amber {
		t.Error("high should be amber")
	}
	if PriorityColor("") != TextSecondary {
		t.Error("unknown priority should use secondary text")
	}
}
