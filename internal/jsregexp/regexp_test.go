package jsregexp

import "testing"

func TestExecGlobalAdvancesLastIndex(t *testing.T) {
	re, err := Compile(`a`, "g")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	m, err := re.Exec("banana")
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if m == nil || m.Index != 1 {
		t.Fatalf("expected match at index 1, got %+v", m)
	}
	if re.LastIndex != 2 {
		t.Fatalf("expected lastIndex 2, got %d", re.LastIndex)
	}

	m2, err := re.Exec("banana")
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if m2 == nil || m2.Index != 3 {
		t.Fatalf("expected second match at index 3, got %+v", m2)
	}
}

func TestExecNonGlobalIgnoresLastIndex(t *testing.T) {
	re, err := Compile(`a`, "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	re.LastIndex = 5
	m, err := re.Exec("banana")
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if m == nil || m.Index != 1 {
		t.Fatalf("expected match at index 1 regardless of lastIndex, got %+v", m)
	}
	if re.LastIndex != 5 {
		t.Fatalf("lastIndex should be untouched for a non-global regex, got %d", re.LastIndex)
	}
}

func TestExecFailureResetsLastIndex(t *testing.T) {
	re, err := Compile(`z`, "g")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	re.LastIndex = 3
	m, err := re.Exec("banana")
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if m != nil {
		t.Fatalf("expected no match, got %+v", m)
	}
	if re.LastIndex != 0 {
		t.Fatalf("expected lastIndex reset to 0 on failure, got %d", re.LastIndex)
	}
}

func TestEmptyMatchAdvancesByOne(t *testing.T) {
	re, err := Compile(`a*`, "g")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	matches, err := re.FindAll("baab")
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	// "baab" against /a*/g: "" at 0, "aa" at 1, "" at 3, "" at 4.
	if len(matches) != 4 {
		t.Fatalf("expected 4 matches (including empties), got %d: %+v", len(matches), matches)
	}
}

func TestStickyRequiresMatchAtLastIndex(t *testing.T) {
	re, err := Compile(`foo`, "y")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	re.LastIndex = 1
	m, err := re.Exec("xfooy")
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if m == nil || m.Index != 1 {
		t.Fatalf("expected sticky match at lastIndex 1, got %+v", m)
	}

	re2, err := Compile(`foo`, "y")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	m2, err := re2.Exec("xfooy")
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if m2 != nil {
		t.Fatalf("expected no sticky match at lastIndex 0, got %+v", m2)
	}
}

func TestReplaceExpandsDollarTokens(t *testing.T) {
	re, err := Compile(`(\w+)@(\w+)`, "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	got, err := Replace(re, "user@host", "$2:$1 [$&]")
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	want := "host:user [user@host]"
	if got != want {
		t.Fatalf("Replace() = %q, want %q", got, want)
	}
}

func TestSplitSplicesCaptureGroups(t *testing.T) {
	re, err := Compile(`(-)`, "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	parts, err := Split(re, "a-b", -1)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	want := []string{"a", "-", "b"}
	if len(parts) != len(want) {
		t.Fatalf("Split() = %v, want %v", parts, want)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Fatalf("Split()[%d] = %q, want %q", i, parts[i], want[i])
		}
	}
}

func TestMatchAllRejectsNonGlobal(t *testing.T) {
	re, err := Compile(`a`, "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, err := MatchAll(re, "aaa"); err == nil {
		t.Fatal("expected error for matchAll on non-global regex")
	}
}

func TestVersion12LeftContextSurvivesFailedMatch(t *testing.T) {
	re, err := Compile(`b`, "g")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	re.SetVersion12LeftContext(true)
	if _, err := re.Exec("abc"); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if re.LeftContext() != "a" {
		t.Fatalf("LeftContext() = %q, want %q", re.LeftContext(), "a")
	}
	re.LastIndex = 0
	if m, err := re.Exec("xyz"); err != nil || m != nil {
		t.Fatalf("expected clean failure, got m=%+v err=%v", m, err)
	}
	if re.LeftContext() != "a" {
		t.Fatalf("LeftContext() after failed match = %q, want preserved %q", re.LeftContext(), "a")
	}
}
