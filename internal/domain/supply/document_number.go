package supply

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Supply document numbers are per-day sequences: SUP-YYYYMMDD-NNN. They are
// assigned by the repository inside the save transaction so two concurrent
// intakes cannot mint the same number.

// DocumentNumberPrefix returns the day prefix, e.g. "SUP-20240101-"
func DocumentNumberPrefix(t time.Time) string {
	return fmt.Sprintf("SUP-%s-", t.Format("20060102"))
}

// FormatDocumentNumber builds a document number from a day and sequence
func FormatDocumentNumber(t time.Time, seq int) string {
	return fmt.Sprintf("%s%03d", DocumentNumberPrefix(t), seq)
}

// ParseDocumentSequence extracts the sequence from a document number for the
// given day prefix. Returns false when the number does not belong to that
// day or does not parse.
func ParseDocumentSequence(documentNumber, prefix string) (int, bool) {
	if !strings.HasPrefix(documentNumber, prefix) {
		return 0, false
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(documentNumber, prefix))
	if err != nil || seq < 1 {
		return 0, false
	}
	return seq, true
}

// FormatLotNumber builds a batch lot number: LOT-{supplyID}-{seq}
func FormatLotNumber(supplyID uuid.UUID, seq int) string {
	return fmt.Sprintf("LOT-%s-%d", supplyID, seq)
}
