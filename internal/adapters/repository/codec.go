package repository

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/okian/crease/internal/domain/model"
)

func encodeMatch(m model.Match) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("%w: encode match %s: %v", ErrCodec, m.ID, err)
	}
	return b, nil
}

func decodeMatch(b []byte) (model.Match, error) {
	var m model.Match
	if err := json.Unmarshal(b, &m); err != nil {
		return model.Match{}, fmt.Errorf("%w: decode match: %v", ErrCodec, err)
	}
	return m, nil
}

func encodeRoster(players []model.Player) ([]byte, error) {
	b, err := json.Marshal(players)
	if err != nil {
		return nil, fmt.Errorf("%w: encode roster: %v", ErrCodec, err)
	}
	return b, nil
}

func decodeRoster(b []byte) ([]model.Player, error) {
	var players []model.Player
	if err := json.Unmarshal(b, &players); err != nil {
		return nil, fmt.Errorf("%w: decode roster: %v", ErrCodec, err)
	}
	return players, nil
}
