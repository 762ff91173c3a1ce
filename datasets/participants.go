package datasets

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ParticipantsFile is the name of the participant table inside the dataset root.
const ParticipantsFile = "participants.tsv"

const (
	participantIDColumn  = "participant_id"
	sessionOrderColumn   = "SessionOrder"
	sleepDeprivedCode    = "SD"
	sessionCodeLen       = 2
	sessionOrderSepWidth = 2
)

// Participant holds the class label of both sessions of one participant.
type Participant struct {
	ID            string
	Session1Label int
	Session2Label int
}

// LabelFromCode maps a two letter session code to its class label.
func LabelFromCode(code string) int {
	if code == sleepDeprivedCode {
		return 1
	}
	return 0
}

// DeriveLabels splits a SessionOrder value such as "SDxxNS" into the labels of
// session 1 (chars [0:2]) and session 2 (chars [4:]). Short values are clamped
// instead of rejected, which yields label 0 for the missing part.
func DeriveLabels(sessionOrder string) (ses1, ses2 int) {
	first := sessionOrder[:min(sessionCodeLen, len(sessionOrder))]
	second := sessionOrder[min(sessionCodeLen+sessionOrderSepWidth, len(sessionOrder)):]
	return LabelFromCode(first), LabelFromCode(second)
}

// ReadParticipants reads the tab separated participant table at path and
// returns one Participant per data row, in file order.
func ReadParticipants(path string) ([]Participant, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open participants table %s", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = '\t'
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read header of %s", path)
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[strings.TrimSpace(col)] = i
	}

	// Verify required columns exist
	for _, col := range []string{participantIDColumn, sessionOrderColumn} {
		if _, ok := colIndex[col]; !ok {
			return nil, errors.Errorf("required column %q not found in %s", col, path)
		}
	}
	idCol := colIndex[participantIDColumn]
	orderCol := colIndex[sessionOrderColumn]

	var participants []Participant
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read row %d of %s", len(participants)+1, path)
		}
		ses1, ses2 := DeriveLabels(record[orderCol])
		participants = append(participants, Participant{
			ID:            strings.TrimSpace(record[idCol]),
			Session1Label: ses1,
			Session2Label: ses2,
		})
	}

	return participants, nil
}
