package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"leafdoctor-bot/internal/domain/entity"
)

func TestAssembleDiagnosis(t *testing.T) {
	result := AssembleDiagnosis("**Early blight**\nRemove lower leaves.", entity.LanguageSinhala)

	require.Equal(t, entity.PlaceholderDiseaseLabel, result.DiseaseLabel)
	require.Equal(t, "**Early blight**\nRemove lower leaves.", result.Summary)
	require.Equal(t, entity.PlaceholderTreatment, result.Treatment)
	require.Equal(t, entity.LanguageSinhala, result.Language)
}

func TestAssembleDiagnosis_SummaryNeverEmpty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		require.Equal(t, entity.NoResult, AssembleDiagnosis(raw, entity.LanguageEnglish).Summary)
	}
}
