package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
)

func validConfig() Config {
	cfg := Default()
	ApplyDefaults(&cfg)
	return cfg
}

func TestValidate_DuplicateSectionIDs_IsFatalWithContext(t *testing.T) {
	cfg := validConfig()
	cfg.Structure.Sections = []SectionDefinition{
		{ID: "guides", Name: "Guides", Subsections: []SectionDefinition{{ID: "api", Name: "API"}}},
		{ID: "api", Name: "API again"},
	}

	err := Validate(&cfg)
	require.Error(t, err)

	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryConfig, classified.Category())
	assert.True(t, classified.IsFatal())
	id, _ := classified.Context().GetString(ferrors.CtxSectionID)
	assert.Equal(t, "api", id)
	assert.Contains(t, classified.Message(), "Duplicate section IDs found: api")
}

func TestValidate_DanglingAttachmentSection_IsFatal(t *testing.T) {
	cfg := validConfig()
	cfg.Structure.Sections = []SectionDefinition{{ID: "guides", Name: "Guides"}}
	cfg.Processing.Attachments = []AttachmentFile{{Source: "specs/openapi.yaml", Title: "OpenAPI", SectionID: "missing"}}

	err := Validate(&cfg)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	id, _ := ferrors.GetContext(err).GetString(ferrors.CtxSectionID)
	assert.Equal(t, "missing", id)
}

func TestValidate_DuplicateRoutePatternAcrossSections_IsFatal(t *testing.T) {
	cfg := validConfig()
	cfg.Structure.Sections = []SectionDefinition{
		{ID: "a", Name: "A", Routes: []RouteRule{{Route: "/docs/**"}}},
		{ID: "b", Name: "B", Routes: []RouteRule{{Route: "/docs/**"}}},
	}

	err := Validate(&cfg)
	require.Error(t, err)
	pattern, _ := ferrors.GetContext(err).GetString(ferrors.CtxRoutePattern)
	assert.Equal(t, "/docs/**", pattern)
}

func TestValidate_SecurityChecks(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"uppercase id", func(c *Config) { c.Structure.Sections = []SectionDefinition{{ID: "Guides", Name: "G"}} }},
		{"long id", func(c *Config) {
			long := make([]byte, 65)
			for i := range long {
				long[i] = 'a'
			}
			c.Structure.Sections = []SectionDefinition{{ID: string(long), Name: "G"}}
		}},
		{"traversal source", func(c *Config) {
			c.Processing.Attachments = []AttachmentFile{{Source: "../secrets.txt", Title: "x"}}
		}},
		{"absolute source", func(c *Config) {
			c.Processing.Attachments = []AttachmentFile{{Source: "/etc/passwd", Title: "x"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(&cfg)
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
		})
	}
}

func TestFlattenSections_TracksParents(t *testing.T) {
	flat := FlattenSections([]SectionDefinition{
		{ID: "root", Subsections: []SectionDefinition{{ID: "child", Subsections: []SectionDefinition{{ID: "leaf"}}}}},
	})
	require.Len(t, flat, 3)
	assert.Equal(t, "", flat[0].ParentID)
	assert.Equal(t, "root", flat[1].ParentID)
	assert.Equal(t, "child", flat[2].ParentID)
	assert.Equal(t, 2, flat[2].Depth)
}
