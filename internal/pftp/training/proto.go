// Package training renders the externally-defined TrainingSessionTarget
// message into a human-readable summary. It is informational only: the
// transport transmits these bytes unchanged and never decodes them
// itself. The schema is assumed (the spec treats it as provided by an
// external serialization library); field numbers below are this module's
// own internally-consistent choice, not a contract with any real device.
package training

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Duration mirrors PbDuration: every field is optional, matching the
// original's Option<u32> components (each may be entirely absent from a
// phase's goal).
type Duration struct {
	Hours, Minutes, Seconds, Millis *uint32
}

// Goal mirrors PbGoal: a single optional Duration.
type Goal struct {
	Duration *Duration
}

// Name mirrors PbLocalizedText: a plain text field.
type Name struct {
	Text string
}

// Phase mirrors PbPhase: a name, a goal, and the optional jump/repeat
// pair that forms a back-jump into the already-emitted phase sequence.
type Phase struct {
	Name        Name
	Goal        Goal
	JumpIndex   *uint32
	RepeatCount *uint32
}

// Phases mirrors PbPhases: an ordered list of phases.
type Phases struct {
	Phase []Phase
}

// ExerciseTarget mirrors PbExerciseTarget: the phase list for one
// exercise within a training session.
type ExerciseTarget struct {
	Phases *Phases
}

// SessionTarget mirrors PbTrainingSessionTarget: one or more exercise
// targets. Only the first is used by Describe, matching the original
// implementation's exercise_target[0] access.
type SessionTarget struct {
	ExerciseTarget []ExerciseTarget
}

const (
	fieldSessionExercises protowire.Number = 1

	fieldExercisePhases protowire.Number = 1

	fieldPhasesPhase protowire.Number = 1

	fieldPhaseName        protowire.Number = 1
	fieldPhaseGoal        protowire.Number = 2
	fieldPhaseJumpIndex   protowire.Number = 3
	fieldPhaseRepeatCount protowire.Number = 4

	fieldNameText protowire.Number = 1

	fieldGoalDuration protowire.Number = 1

	fieldDurationHours   protowire.Number = 1
	fieldDurationMinutes protowire.Number = 2
	fieldDurationSeconds protowire.Number = 3
	fieldDurationMillis  protowire.Number = 4
)

// Encode serializes s for round-trip testing against Decode.
func Encode(s SessionTarget) []byte {
	var b []byte
	for _, ex := range s.ExerciseTarget {
		b = protowire.AppendTag(b, fieldSessionExercises, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeExerciseTarget(ex))
	}
	return b
}

func encodeExerciseTarget(ex ExerciseTarget) []byte {
	if ex.Phases == nil {
		return nil
	}
	var b []byte
	b = protowire.AppendTag(b, fieldExercisePhases, protowire.BytesType)
	b = protowire.AppendBytes(b, encodePhases(*ex.Phases))
	return b
}

func encodePhases(p Phases) []byte {
	var b []byte
	for _, phase := range p.Phase {
		b = protowire.AppendTag(b, fieldPhasesPhase, protowire.BytesType)
		b = protowire.AppendBytes(b, encodePhase(phase))
	}
	return b
}

func encodePhase(p Phase) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldPhaseName, protowire.BytesType)
	b = protowire.AppendBytes(b, encodeName(p.Name))

	b = protowire.AppendTag(b, fieldPhaseGoal, protowire.BytesType)
	b = protowire.AppendBytes(b, encodeGoal(p.Goal))

	if p.JumpIndex != nil {
		b = protowire.AppendTag(b, fieldPhaseJumpIndex, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(*p.JumpIndex))
	}
	if p.RepeatCount != nil {
		b = protowire.AppendTag(b, fieldPhaseRepeatCount, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(*p.RepeatCount))
	}
	return b
}

func encodeName(n Name) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldNameText, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte(n.Text))
	return b
}

func encodeGoal(g Goal) []byte {
	if g.Duration == nil {
		return nil
	}
	var b []byte
	b = protowire.AppendTag(b, fieldGoalDuration, protowire.BytesType)
	b = protowire.AppendBytes(b, encodeDuration(*g.Duration))
	return b
}

func encodeDuration(d Duration) []byte {
	var b []byte
	if d.Hours != nil {
		b = protowire.AppendTag(b, fieldDurationHours, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(*d.Hours))
	}
	if d.Minutes != nil {
		b = protowire.AppendTag(b, fieldDurationMinutes, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(*d.Minutes))
	}
	if d.Seconds != nil {
		b = protowire.AppendTag(b, fieldDurationSeconds, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(*d.Seconds))
	}
	if d.Millis != nil {
		b = protowire.AppendTag(b, fieldDurationMillis, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(*d.Millis))
	}
	return b
}

// Decode parses a TrainingSessionTarget. Unknown fields are skipped.
func Decode(data []byte) (SessionTarget, error) {
	var s SessionTarget
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return s, fmt.Errorf("training: invalid session tag")
		}
		b = b[n:]
		if num == fieldSessionExercises && typ == protowire.BytesType {
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return s, fmt.Errorf("training: invalid exercise target")
			}
			ex, err := decodeExerciseTarget(v)
			if err != nil {
				return s, err
			}
			s.ExerciseTarget = append(s.ExerciseTarget, ex)
			b = b[m:]
			continue
		}
		m := protowire.ConsumeFieldValue(num, typ, b)
		if m < 0 {
			return s, fmt.Errorf("training: invalid session field")
		}
		b = b[m:]
	}
	return s, nil
}

func decodeExerciseTarget(data []byte) (ExerciseTarget, error) {
	var ex ExerciseTarget
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return ex, fmt.Errorf("training: invalid exercise tag")
		}
		b = b[n:]
		if num == fieldExercisePhases && typ == protowire.BytesType {
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return ex, fmt.Errorf("training: invalid phases")
			}
			phases, err := decodePhases(v)
			if err != nil {
				return ex, err
			}
			ex.Phases = &phases
			b = b[m:]
			continue
		}
		m := protowire.ConsumeFieldValue(num, typ, b)
		if m < 0 {
			return ex, fmt.Errorf("training: invalid exercise field")
		}
		b = b[m:]
	}
	return ex, nil
}

func decodePhases(data []byte) (Phases, error) {
	var p Phases
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return p, fmt.Errorf("training: invalid phases tag")
		}
		b = b[n:]
		if num == fieldPhasesPhase && typ == protowire.BytesType {
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return p, fmt.Errorf("training: invalid phase")
			}
			phase, err := decodePhase(v)
			if err != nil {
				return p, err
			}
			p.Phase = append(p.Phase, phase)
			b = b[m:]
			continue
		}
		m := protowire.ConsumeFieldValue(num, typ, b)
		if m < 0 {
			return p, fmt.Errorf("training: invalid phases field")
		}
		b = b[m:]
	}
	return p, nil
}

func decodePhase(data []byte) (Phase, error) {
	var phase Phase
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return phase, fmt.Errorf("training: invalid phase tag")
		}
		b = b[n:]
		switch {
		case num == fieldPhaseName && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return phase, fmt.Errorf("training: invalid phase name")
			}
			name, err := decodeName(v)
			if err != nil {
				return phase, err
			}
			phase.Name = name
			b = b[m:]
		case num == fieldPhaseGoal && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return phase, fmt.Errorf("training: invalid phase goal")
			}
			goal, err := decodeGoal(v)
			if err != nil {
				return phase, err
			}
			phase.Goal = goal
			b = b[m:]
		case num == fieldPhaseJumpIndex && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return phase, fmt.Errorf("training: invalid jump index")
			}
			jump := uint32(v)
			phase.JumpIndex = &jump
			b = b[m:]
		case num == fieldPhaseRepeatCount && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return phase, fmt.Errorf("training: invalid repeat count")
			}
			count := uint32(v)
			phase.RepeatCount = &count
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return phase, fmt.Errorf("training: invalid phase field")
			}
			b = b[m:]
		}
	}
	return phase, nil
}

func decodeName(data []byte) (Name, error) {
	var name Name
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return name, fmt.Errorf("training: invalid name tag")
		}
		b = b[n:]
		if num == fieldNameText && typ == protowire.BytesType {
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return name, fmt.Errorf("training: invalid name text")
			}
			name.Text = string(v)
			b = b[m:]
			continue
		}
		m := protowire.ConsumeFieldValue(num, typ, b)
		if m < 0 {
			return name, fmt.Errorf("training: invalid name field")
		}
		b = b[m:]
	}
	return name, nil
}

func decodeGoal(data []byte) (Goal, error) {
	var goal Goal
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return goal, fmt.Errorf("training: invalid goal tag")
		}
		b = b[n:]
		if num == fieldGoalDuration && typ == protowire.BytesType {
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return goal, fmt.Errorf("training: invalid goal duration")
			}
			dur, err := decodeDuration(v)
			if err != nil {
				return goal, err
			}
			goal.Duration = &dur
			b = b[m:]
			continue
		}
		m := protowire.ConsumeFieldValue(num, typ, b)
		if m < 0 {
			return goal, fmt.Errorf("training: invalid goal field")
		}
		b = b[m:]
	}
	return goal, nil
}

func decodeDuration(data []byte) (Duration, error) {
	var dur Duration
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return dur, fmt.Errorf("training: invalid duration tag")
		}
		b = b[n:]
		switch {
		case num == fieldDurationHours && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return dur, fmt.Errorf("training: invalid duration hours")
			}
			hours := uint32(v)
			dur.Hours = &hours
			b = b[m:]
		case num == fieldDurationMinutes && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return dur, fmt.Errorf("training: invalid duration minutes")
			}
			minutes := uint32(v)
			dur.Minutes = &minutes
			b = b[m:]
		case num == fieldDurationSeconds && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return dur, fmt.Errorf("training: invalid duration seconds")
			}
			seconds := uint32(v)
			dur.Seconds = &seconds
			b = b[m:]
		case num == fieldDurationMillis && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return dur, fmt.Errorf("training: invalid duration millis")
			}
			millis := uint32(v)
			dur.Millis = &millis
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return dur, fmt.Errorf("training: invalid duration field")
			}
			b = b[m:]
		}
	}
	return dur, nil
}
