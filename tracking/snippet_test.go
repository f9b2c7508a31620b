package tracking

import (
	"errors"
	"strings"
	"testing"
)

const gtmHeadSnippet = `<!-- Google Tag Manager -->
<script>(function(w,d,s,l,i){w[l]=w[l]||[];w[l].push({'gtm.start':
new Date().getTime(),event:'gtm.js'});var f=d.getElementsByTagName(s)[0],
j=d.createElement(s),dl=l!='dataLayer'?'&l='+l:'';j.async=true;j.src=
'https://www.googletagmanager.com/gtm.js?id='+i+dl;f.parentNode.insertBefore(j,f);
})(window,document,'script','dataLayer','GTM-ABC1234');</script>
<!-- End Google Tag Manager -->`

const gtmBodySnippet = `<noscript><iframe src="https://www.googletagmanager.com/ns.html?id=GTM-ABC1234"
height="0" width="0" style="display:none;visibility:hidden"></iframe></noscript>`

func TestValidateSnippetAcceptsRealGTM(t *testing.T) {
	if err := ValidateSnippet(gtmHeadSnippet); err != nil {
		t.Errorf("head snippet rejected: %v", err)
	}
	if err := ValidateSnippet(gtmBodySnippet); err != nil {
		t.Errorf("body snippet rejected: %v", err)
	}
}

func TestValidateSnippetRejections(t *testing.T) {
	tests := []struct {
		name    string
		snippet string
		want    error
	}{
		{name: "empty", snippet: "", want: ErrSnippetEmpty},
		{name: "whitespace only", snippet: "   \n\t", want: ErrSnippetEmpty},
		{name: "no wrapper element", snippet: `<div>just markup</div>`, want: ErrSnippetNoWrapper},
		{name: "plain text", snippet: `GTM-ABC1234`, want: ErrSnippetNoWrapper},
		{name: "javascript scheme", snippet: `<script>location='javascript:alert(1)'</script>`, want: ErrSnippetBlocked},
		{name: "onerror handler", snippet: `<script>x=1</script><img src=x onerror="alert(1)">`, want: ErrSnippetBlocked},
		{name: "onload handler", snippet: `<iframe onload="alert(1)"></iframe>`, want: ErrSnippetBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateSnippet(tt.snippet); !errors.Is(err, tt.want) {
				t.Errorf("ValidateSnippet() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSafeExcerptStripsMarkup(t *testing.T) {
	got := SafeExcerpt(`<script>alert("boom")</script><b>label</b>`)
	if strings.Contains(got, "<") || strings.Contains(got, ">") {
		t.Errorf("SafeExcerpt() = %q, markup not stripped", got)
	}
}

func TestSafeExcerptCapsLength(t *testing.T) {
	got := SafeExcerpt(strings.Repeat("a", 500))
	if len(got) > 123 {
		t.Errorf("SafeExcerpt() length = %d, want <= 123", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("SafeExcerpt() = %q, want ellipsis suffix", got)
	}
}
