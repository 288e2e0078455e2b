package training

import (
	"fmt"
	"strings"
	"time"
)

// BlockKind distinguishes a leaf phase from a repeat node in the
// flattened training-block tree.
type BlockKind int

const (
	KindPhase BlockKind = iota
	KindRepeat
)

// Block is either a Phase leaf (name + duration) or a Repeat node
// (times + children), mirroring the original implementation's
// TrainingBlock enum.
type Block struct {
	ID       int
	Kind     BlockKind
	Name     string
	Duration time.Duration
	Times    uint32
	Children []Block
}

// TotalDuration is times × Σ child durations for a Repeat, or the leaf
// duration for a Phase.
func (b Block) TotalDuration() time.Duration {
	if b.Kind == KindPhase {
		return b.Duration
	}
	return b.innerDuration() * time.Duration(b.Times)
}

func (b Block) innerDuration() time.Duration {
	if b.Kind == KindPhase {
		return b.Duration
	}
	var sum time.Duration
	for _, c := range b.Children {
		sum += c.TotalDuration()
	}
	return sum
}

// Describe renders a human-readable summary: "name XhY'Z''" for a
// phase, or "Repeat xN [duration]" followed by each indented child for a
// repeat node.
func (b Block) Describe() string {
	if b.Kind == KindPhase {
		return fmt.Sprintf("%s %s", b.Name, humanDuration(b.Duration))
	}
	result := fmt.Sprintf("Repeat x%d [%s]", b.Times, humanDuration(b.innerDuration()))
	for _, child := range b.Children {
		indented := strings.ReplaceAll(child.Describe(), "\n", "\n\t")
		result += "\n\t" + indented
	}
	return result
}

func humanDuration(d time.Duration) string {
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	var b strings.Builder
	if hours > 0 {
		fmt.Fprintf(&b, "%dh", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&b, "%d'", minutes)
	}
	if seconds > 0 || minutes+hours == 0 {
		fmt.Fprintf(&b, "%d''", seconds)
	}
	return b.String()
}

func phaseDuration(p Phase) time.Duration {
	d := p.Goal.Duration
	if d == nil {
		return 0
	}
	var total time.Duration
	if d.Millis != nil {
		total += time.Duration(*d.Millis) * time.Millisecond
	}
	if d.Seconds != nil {
		total += time.Duration(*d.Seconds) * time.Second
	}
	if d.Minutes != nil {
		total += time.Duration(*d.Minutes) * time.Minute
	}
	if d.Hours != nil {
		total += time.Duration(*d.Hours) * time.Hour
	}
	return total
}

func blockFromPhase(id int, p Phase) Block {
	return Block{ID: id, Kind: KindPhase, Name: p.Name.Text, Duration: phaseDuration(p)}
}

// splitAt divides blocks into the prefix before the first block matching
// pred and the suffix starting at (and including) that block, matching
// the original's split_at helper.
func splitAt(blocks []Block, pred func(Block) bool) (before, after []Block) {
	useSecond := false
	for _, b := range blocks {
		if pred(b) {
			useSecond = true
		}
		if useSecond {
			after = append(after, b)
		} else {
			before = append(before, b)
		}
	}
	return before, after
}

// BuildTree flattens phases into a single top-level Repeat{times:1} block,
// collapsing each back-jump (a phase carrying JumpIndex) into a Repeat
// wrapping the already-emitted suffix whose first element has id equal to
// the jump index. ok is false if a jump_index names no emitted phase.
func BuildTree(phases []Phase) (root Block, ok bool) {
	var result []Block
	for i, phase := range phases {
		result = append(result, blockFromPhase(i+1, phase))

		if phase.JumpIndex == nil {
			continue
		}
		jumpID := int(*phase.JumpIndex)
		before, after := splitAt(result, func(b Block) bool { return b.ID == jumpID })
		if len(after) == 0 {
			return Block{}, false
		}

		var times uint32
		if phase.RepeatCount != nil {
			times = *phase.RepeatCount + 1
		}
		result = append(before, Block{ID: after[0].ID, Kind: KindRepeat, Times: times, Children: after})
	}

	return Block{ID: 0, Kind: KindRepeat, Times: 1, Children: result}, true
}

// Describe decodes a TrainingSessionTarget and renders a human summary of
// its first exercise target's phases. It returns an error if the payload
// doesn't decode or names a back-jump with no matching phase.
func Describe(data []byte) (string, error) {
	session, err := Decode(data)
	if err != nil {
		return "", err
	}
	if len(session.ExerciseTarget) == 0 || session.ExerciseTarget[0].Phases == nil {
		return "", fmt.Errorf("training: session has no phases")
	}

	root, ok := BuildTree(session.ExerciseTarget[0].Phases.Phase)
	if !ok {
		return "", fmt.Errorf("training: jump_index does not match any phase")
	}
	return root.Describe(), nil
}
