package types

import (
	"testing"
	"time"
)

func TestStrategyFromFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		move    bool
		link    bool
		want    Strategy
		wantErr bool
	}{
		{name: "default is copy", want: StrategyCopy},
		{name: "move selected", move: true, want: StrategyMove},
		{name: "link selected", link: true, want: StrategyLink},
		{name: "both selected conflicts", move: true, link: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := StrategyFromFlags(tt.move, tt.link)
			if tt.wantErr {
				if err == nil {
					t.Fatal("StrategyFromFlags() error = nil, want conflict error")
				}
				return
			}
			if err != nil {
				t.Fatalf("StrategyFromFlags() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("StrategyFromFlags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrategy_Action(t *testing.T) {
	t.Parallel()

	if got := StrategyCopy.Action(); got != ActionCopy {
		t.Errorf("copy strategy action = %v, want %v", got, ActionCopy)
	}
	if got := StrategyMove.Action(); got != ActionMove {
		t.Errorf("move strategy action = %v, want %v", got, ActionMove)
	}
	if got := StrategyLink.Action(); got != ActionLink {
		t.Errorf("link strategy action = %v, want %v", got, ActionLink)
	}
}

func TestParseStrategy(t *testing.T) {
	t.Parallel()

	if got, err := ParseStrategy("MOVE"); err != nil || got != StrategyMove {
		t.Errorf("ParseStrategy(MOVE) = %v, %v", got, err)
	}
	if got, err := ParseStrategy(""); err != nil || got != StrategyCopy {
		t.Errorf("ParseStrategy(empty) = %v, %v", got, err)
	}
	if _, err := ParseStrategy("teleport"); err == nil {
		t.Error("ParseStrategy(teleport) error = nil, want error")
	}
}

func TestIsMediaMIME(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mimetype string
		want     bool
	}{
		{"image/jpeg", true},
		{"image/x-canon-cr2", true},
		{"video/mp4", true},
		{"video/quicktime", true},
		{"application/vnd.adobe.photoshop", true},
		{"application/pdf", false},
		{"text/plain", false},
		{"image/", false},
		{"video/", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsMediaMIME(tt.mimetype); got != tt.want {
			t.Errorf("IsMediaMIME(%q) = %v, want %v", tt.mimetype, got, tt.want)
		}
	}
}

func TestResolvedDate_Confident(t *testing.T) {
	t.Parallel()

	confident := ResolvedDate{Time: time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)}
	if !confident.Confident() {
		t.Error("resolved date with time and no guess should be confident")
	}

	guess := ResolvedDate{Time: time.Now(), Guess: true}
	if guess.Confident() {
		t.Error("guess date must never be confident")
	}

	var empty ResolvedDate
	if empty.Confident() {
		t.Error("zero date must never be confident")
	}
}

func TestActionKind_Valid(t *testing.T) {
	t.Parallel()

	for _, a := range []ActionKind{ActionCopy, ActionMove, ActionLink, ActionSkip, ActionIgnore} {
		if !a.Valid() {
			t.Errorf("%v should be valid", a)
		}
	}
	if ActionKind("delete").Valid() {
		t.Error("unknown action kind should not be valid")
	}
}
