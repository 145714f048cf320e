package enums

import "fmt"

// QueueStage identifies which processing station a queued order sits at.
type QueueStage string

const (
	QueueStageRegistered QueueStage = "registered"
	QueueStageWashing    QueueStage = "washing"
	QueueStageIroning    QueueStage = "ironing"
	QueueStagePacking    QueueStage = "packing"
)

var validQueueStages = []QueueStage{
	QueueStageRegistered,
	QueueStageWashing,
	QueueStageIroning,
	QueueStagePacking,
}

// String implements fmt.Stringer.
func (q QueueStage) String() string {
	return string(q)
}

// IsValid reports whether the value is a known QueueStage.
func (q QueueStage) IsValid() bool {
	for _, candidate := range validQueueStages {
		if candidate == q {
			return true
		}
	}
	return false
}

// ParseQueueStage converts raw input into a QueueStage.
func ParseQueueStage(value string) (QueueStage, error) {
	for _, candidate := range validQueueStages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid queue stage %q", value)
}
