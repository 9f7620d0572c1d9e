package notification

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTemplateStore struct {
	templates map[string]*Template
	err       error
}

func (f *fakeTemplateStore) FetchTemplate(_ context.Context, name string) (*Template, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.templates[name], nil
}

type fakeSettingsStore struct {
	settings map[string]any
	err      error
}

func (f *fakeSettingsStore) FetchSettings(_ context.Context) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.settings, nil
}

func bookingConfirmedTemplate() *Template {
	return &Template{
		ID:       "t-1",
		Name:     "booking_confirmed",
		Category: "booking",
		Subject:  "Booking {{booking_id}} confirmed",
		HTMLContent: `{{#if customer_name}}Hello {{customer_name}}{{/if}}, ` +
			`total: {{formatCurrency total currency}}`,
		TextContent: "Booking {{booking_id}}: {{formatCurrency total currency}}",
		IsActive:    true,
	}
}

func TestRenderTemplateEndToEnd(t *testing.T) {
	svc := NewService(
		&fakeTemplateStore{templates: map[string]*Template{
			"booking_confirmed": bookingConfirmedTemplate(),
		}},
		&fakeSettingsStore{settings: map[string]any{"primary_color": "#123456"}},
		nil,
	)

	result, err := svc.RenderTemplate(context.Background(), "booking_confirmed",
		map[string]any{
			"booking_id":    "B-100",
			"customer_name": "Mei",
			"total":         9000,
			"currency":      "JPY",
		},
		TeamJapan, LanguageEnglish)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "Booking B-100 confirmed", result.Subject)
	assert.Equal(t, "Booking B-100: ¥9,000", result.Text)
	assert.Contains(t, result.HTML, "Hello Mei, total: ¥9,000")

	// Composer shell around the body.
	assert.Contains(t, result.HTML, "Booking B-100 confirmed") // header title
	assert.Contains(t, result.HTML, "#123456")                 // brand color from settings
	assert.Contains(t, result.HTML, "Driver (Japan) Company Limited")
	assert.NotContains(t, result.HTML, "{{")
}

func TestRenderTemplateNotFound(t *testing.T) {
	svc := NewService(
		&fakeTemplateStore{templates: map[string]*Template{}},
		&fakeSettingsStore{},
		nil,
	)

	result, err := svc.RenderTemplate(context.Background(), "missing", nil, TeamJapan, LanguageEnglish)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestRenderTemplateStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	svc := NewService(
		&fakeTemplateStore{err: storeErr},
		&fakeSettingsStore{},
		nil,
	)

	result, err := svc.RenderTemplate(context.Background(), "x", nil, TeamJapan, LanguageEnglish)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, storeErr)
}

func TestRenderTemplateSettingsFailureDegrades(t *testing.T) {
	svc := NewService(
		&fakeTemplateStore{templates: map[string]*Template{
			"booking_confirmed": bookingConfirmedTemplate(),
		}},
		&fakeSettingsStore{err: errors.New("settings table unavailable")},
		nil,
	)

	result, err := svc.RenderTemplate(context.Background(), "booking_confirmed",
		map[string]any{"booking_id": "B-1", "total": 100, "currency": "USD"},
		TeamJapan, LanguageEnglish)
	require.NoError(t, err)

	// Default branding fills in when settings are unavailable.
	assert.Contains(t, result.HTML, defaultPrimaryColor)
	assert.Equal(t, "Booking B-1 confirmed", result.Subject)
}

func TestRenderTemplateJapaneseFooter(t *testing.T) {
	svc := NewService(
		&fakeTemplateStore{templates: map[string]*Template{
			"booking_confirmed": bookingConfirmedTemplate(),
		}},
		&fakeSettingsStore{},
		nil,
	)

	result, err := svc.RenderTemplate(context.Background(), "booking_confirmed",
		map[string]any{"booking_id": "B-2", "total": 100, "currency": "JPY"},
		TeamJapan, LanguageJapanese)
	require.NoError(t, err)
	assert.Contains(t, result.HTML, "ご利用いただきありがとうございます。")
}

func TestRenderTemplateThailandBranding(t *testing.T) {
	svc := NewService(
		&fakeTemplateStore{templates: map[string]*Template{
			"booking_confirmed": bookingConfirmedTemplate(),
		}},
		&fakeSettingsStore{},
		nil,
	)

	result, err := svc.RenderTemplate(context.Background(), "booking_confirmed",
		map[string]any{"booking_id": "B-3", "total": 100, "currency": "THB"},
		TeamThailand, LanguageEnglish)
	require.NoError(t, err)
	assert.Contains(t, result.HTML, "Driver (Thailand) Company Limited")
	assert.Contains(t, result.Text, "THB 100")
}

func TestRenderTemplateDeterministic(t *testing.T) {
	svc := NewService(
		&fakeTemplateStore{templates: map[string]*Template{
			"booking_confirmed": bookingConfirmedTemplate(),
		}},
		&fakeSettingsStore{settings: map[string]any{"logo_url": "https://cdn/logo.png"}},
		nil,
	)
	vars := map[string]any{"booking_id": "B-9", "customer_name": "Ken", "total": 1, "currency": "JPY"}

	first, err := svc.RenderTemplate(context.Background(), "booking_confirmed", vars, TeamJapan, LanguageEnglish)
	require.NoError(t, err)
	second, err := svc.RenderTemplate(context.Background(), "booking_confirmed", vars, TeamJapan, LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderTemplateUnresolvedStaysVisible(t *testing.T) {
	svc := NewService(
		&fakeTemplateStore{templates: map[string]*Template{
			"ping": {
				ID: "t-2", Name: "ping", IsActive: true,
				Subject:     "Hi {{unknown}}",
				HTMLContent: "Link: [MAGIC_LINK]",
			},
		}},
		&fakeSettingsStore{},
		nil,
	)

	result, err := svc.RenderTemplate(context.Background(), "ping", nil, TeamJapan, LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, "Hi {{unknown}}", result.Subject)
	assert.Contains(t, result.HTML, "Link: [MAGIC_LINK]")
}

func TestTeamFooterHTML(t *testing.T) {
	en := TeamFooterHTML(TeamJapan, false)
	assert.Contains(t, en, "Thank you for riding with us.")
	assert.Contains(t, en, "Tax ID: T2020001153198")

	ja := TeamFooterHTML(TeamJapan, true)
	assert.True(t, strings.Contains(ja, "ご利用いただきありがとうございます。"))

	th := TeamFooterHTML(TeamThailand, false)
	assert.Contains(t, th, "Bangkok")
}

func TestTeamCompanyNameUnknownTeamFallsBack(t *testing.T) {
	assert.Equal(t, "Driver (Japan) Company Limited", TeamCompanyName(Team("mars")))
}
