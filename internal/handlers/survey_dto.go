package handlers

import (
	"encoding/hex"
	"errors"
	"strconv"

	"github.com/gorilla/schema"

	"github.com/vancomm/treetop/internal/forest"
	"github.com/vancomm/treetop/internal/repository"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

type ListSurveysDTO struct {
	Width  *int `schema:"width"`
	Height *int `schema:"height"`
	Limit  int  `schema:"limit"`
}

func ParseListSurveysDTO(src map[string][]string) (ListSurveysDTO, error) {
	var dto ListSurveysDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

func (dto ListSurveysDTO) Filter() repository.SurveyFilter {
	return repository.SurveyFilter{
		Width:  dto.Width,
		Height: dto.Height,
		Limit:  dto.Limit,
	}
}

type SurveyDTO struct {
	SurveyId    string `json:"survey_id,omitempty"`
	Fingerprint string `json:"fingerprint"`
	forest.Survey
	CreatedAt int64 `json:"created_at,omitempty"`
}

func NewSurveyDTO(s *repository.Survey) SurveyDTO {
	return SurveyDTO{
		SurveyId:    strconv.FormatInt(s.SurveyId, 10),
		Fingerprint: hex.EncodeToString(s.Fingerprint),
		Survey: forest.Survey{
			Width:       s.Width,
			Height:      s.Height,
			Visible:     s.Visible,
			ScenicScore: s.ScenicScore,
			BestRow:     s.BestRow,
			BestCol:     s.BestCol,
		},
		CreatedAt: s.CreatedAt.UnixMilli(),
	}
}

// NewTransientSurveyDTO describes a survey that was never stored.
func NewTransientSurveyDTO(g *forest.Grid, s forest.Survey) SurveyDTO {
	return SurveyDTO{
		Fingerprint: hex.EncodeToString(g.Fingerprint()),
		Survey:      s,
	}
}

func parseErrorDTO(err error) errorDTO {
	dto := wrapError(err)
	var parseErr *forest.ParseError
	if errors.As(err, &parseErr) {
		dto.Line, dto.Column = parseErr.Line, parseErr.Column
	}
	return dto
}
