package notification

import (
	"strings"

	"github.com/fleetdesk/notify/pkg/template"
)

// teamAddress carries the per-team identity rendered into email footers.
type teamAddress struct {
	companyName  string
	addressLines []string
	taxID        string
	contactEmail string
}

var teamAddresses = map[Team]teamAddress{
	TeamJapan: {
		companyName: "Driver (Japan) Company Limited",
		addressLines: []string{
			"#47 11F TOC Bldg 7-22-17 Nishi-Gotanda",
			"Shinagawa-Ku Tokyo Japan 141-0031",
		},
		taxID:        "Tax ID: T2020001153198",
		contactEmail: "booking@japandriver.com",
	},
	TeamThailand: {
		companyName: "Driver (Thailand) Company Limited",
		addressLines: []string{
			"580/17 Soi Ramkhamhaeng 39",
			"Wang Thong Lang, Bangkok 10310, Thailand",
		},
		taxID:        "Tax ID: 0105566135845",
		contactEmail: "booking@japandriver.com",
	},
}

// TeamCompanyName resolves the operating company name for a team.
// Unknown teams fall back to the Japan entity.
func TeamCompanyName(team Team) string {
	if addr, ok := teamAddresses[team]; ok {
		return addr.companyName
	}
	return teamAddresses[TeamJapan].companyName
}

// TeamFooterHTML builds the localized footer block for a team.
func TeamFooterHTML(team Team, japanese bool) string {
	addr, ok := teamAddresses[team]
	if !ok {
		addr = teamAddresses[TeamJapan]
	}

	thanks := "Thank you for riding with us."
	if japanese {
		thanks = "ご利用いただきありがとうございます。"
	}

	var b strings.Builder
	b.WriteString(`<p style="margin:0 0 10px 0; font-weight:bold;">` + thanks + `</p>`)
	b.WriteString(`<p style="margin:0 0 2px 0; color:#111827; font-size:13px;">` + addr.companyName + `</p>`)
	for _, line := range addr.addressLines {
		b.WriteString(`<p style="margin:0 0 2px 0; color:#111827; font-size:13px;">` + line + `</p>`)
	}
	b.WriteString(`<p style="margin:0 0 2px 0; color:#111827; font-size:13px;">` + addr.taxID + `</p>`)
	b.WriteString(`<p style="margin:0; color:#111827; font-size:13px;">` + addr.contactEmail + `</p>`)
	return b.String()
}

// Header/footer partials. They carry only leaf placeholders; the shell
// has no conditionals or loops, so composing is a plain substitution
// pass over a small string plus concatenation.
const headerPartial = `<tr>
  <td style="background:linear-gradient(135deg,{{primary_color}} 0%,#F45C4C 100%);">
    <table width="100%" role="presentation">
      <tr>
        <td align="center" style="padding:24px;">
          <table cellpadding="0" cellspacing="0" style="background:#FFFFFF; border-radius:50%; width:64px; height:64px; margin:0 auto 12px;">
            <tr><td align="center" valign="middle" style="text-align:center;">
              <img src="{{logo_url}}" width="48" height="48" alt="{{company_name}} logo" style="display:block; margin:0 auto;">
            </td></tr>
          </table>
          <h1 style="margin:0; font-size:24px; color:#FFF; font-weight:600;">{{email_title}}</h1>
        </td>
      </tr>
    </table>
  </td>
</tr>`

const footerPartial = `<tr>
  <td style="padding:32px 24px; background:#f8f9fa; border-top:1px solid #e2e8f0;">
    <div style="text-align:center;">{{footer_html}}</div>
  </td>
</tr>`

// composeHTML wraps a rendered body in the branded email shell. The
// partials render against a dedicated small context so stray business
// variables cannot leak into the shell.
func (s *Service) composeHTML(title, body string, rctx *template.Context, team Team, lang Language) string {
	logoURL := defaultLogoURL
	if v, ok := rctx.Lookup("logo_url"); ok {
		if s := strings.TrimSpace(toString(v)); s != "" {
			logoURL = s
		}
	}
	primaryColor := defaultPrimaryColor
	if v, ok := rctx.Lookup("primary_color"); ok {
		if s := strings.TrimSpace(toString(v)); s != "" {
			primaryColor = s
		}
	}

	shellCtx := template.NewContext(map[string]any{
		"email_title":   title,
		"company_name":  TeamCompanyName(team),
		"logo_url":      logoURL,
		"primary_color": primaryColor,
		"footer_html":   TeamFooterHTML(team, lang == LanguageJapanese),
	})

	header := s.engine.Render(headerPartial, shellCtx)
	footer := s.engine.Render(footerPartial, shellCtx)

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body style="margin:0; padding:0; width:100%; background:#F2F4F6;">`)
	b.WriteString(`<table width="100%" cellpadding="0" cellspacing="0" role="presentation"><tr><td align="center">`)
	b.WriteString(`<table class="container" width="600" cellpadding="0" cellspacing="0" role="presentation" style="background:#FFFFFF; border-radius:8px; overflow:hidden;">`)
	b.WriteString(header)
	b.WriteString(`<tr><td style="padding:32px 24px;">`)
	b.WriteString(body)
	b.WriteString(`</td></tr>`)
	b.WriteString(footer)
	b.WriteString(`</table></td></tr></table></body></html>`)
	return b.String()
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
