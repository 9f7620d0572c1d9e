// Package notification provides the notification rendering service: it
// fetches a stored template and the app settings, builds the render
// context, runs the template engine over subject/HTML/text, and wraps
// the HTML body in the branded email shell.
package notification

import (
	"errors"
	"time"
)

// ErrTemplateNotFound is returned by RenderTemplate when the named
// template does not exist or is inactive. It is the only failure a
// caller needs to branch on; everything inside rendering degrades
// instead of erroring.
var ErrTemplateNotFound = errors.New("notification: template not found")

// Team selects the operating company whose branding and footer the
// rendered email carries.
type Team string

const (
	TeamJapan    Team = "japan"
	TeamThailand Team = "thailand"
)

// Language selects the copy locale injected into the render context.
type Language string

const (
	LanguageEnglish  Language = "en"
	LanguageJapanese Language = "ja"
)

// Template is a stored, versioned notification text asset. Templates are
// created and edited through the admin CRUD surface; the renderer only
// ever reads them.
type Template struct {
	// ID is a unique identifier (UUID).
	ID string `json:"id" yaml:"id"`

	// Name is the lookup key used by RenderTemplate.
	Name string `json:"name" yaml:"name"`

	// Category classifies the template (booking, quotation, maintenance,
	// system). It does not affect rendering.
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// Subject, HTMLContent and TextContent are the three renderable
	// documents. All three render against the same context.
	Subject     string `json:"subject" yaml:"subject"`
	HTMLContent string `json:"html_content" yaml:"html_content"`
	TextContent string `json:"text_content,omitempty" yaml:"text_content,omitempty"`

	// Variables declares the variable names the template expects. The
	// admin UI displays them; rendering does not enforce them.
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`

	// IsActive removes the template from lookup when false without
	// deleting it.
	IsActive bool `json:"is_active" yaml:"is_active"`

	// IsDefault marks the preferred template when several share a name.
	IsDefault bool `json:"is_default,omitempty" yaml:"is_default,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// RenderResult is a fully resolved notification, ready for transport.
// Rendering is all-or-nothing: once a template is found the result is
// always complete, possibly with visible placeholder text where data
// was missing.
type RenderResult struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}
