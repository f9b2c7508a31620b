package tracking

import (
	"context"
	"log"
	"os"
	"strings"
	"sync"

	"lpfactory/models"
)

// State is the injector lifecycle for one page activation.
type State int

const (
	StateIdle State = iota
	// StateInactive is terminal: no config, or configured == false.
	StateInactive
	StateLoading
	StateActive
)

// Page abstracts the environment owning the rendered document: loading a
// third-party script and appending validated markup to head or body.
type Page interface {
	LoadScript(ctx context.Context, url string) error
	InjectHead(markup string) error
	InjectBody(markup string) error
}

// Network fires conversion calls on the loaded integrations.
type Network interface {
	FireConversion(sendTo string)
	FireLead()
}

// Script URLs for the direct integrations.
const (
	gtagScriptBase = "https://www.googletagmanager.com/gtag/js?id="
	metaPixelURL   = "https://connect.facebook.net/en_US/fbevents.js"
)

// Injector owns all mutable tracking state for a single page activation.
// It is not a process-wide singleton: construct one per rendered page and
// discard it on teardown.
type Injector struct {
	cfg    *models.TrackingConfig
	page   Page
	net    Network
	logger *log.Logger

	// mu guards everything below.
	mu           sync.Mutex
	state        State
	loaded       map[string]bool
	headInjected bool
	bodyInjected bool
	conversions  []*models.DetectedConversion
	pixelActive  bool
}

func NewInjector(cfg *models.TrackingConfig, page Page, net Network, logger *log.Logger) *Injector {
	if logger == nil {
		logger = log.New(os.Stdout, "TRACKING: ", log.LstdFlags)
	}
	return &Injector{
		cfg:    cfg,
		page:   page,
		net:    net,
		logger: logger,
		state:  StateIdle,
		loaded: make(map[string]bool),
	}
}

// State reports the current lifecycle state.
func (in *Injector) State() State {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state
}

// Activate runs the injection pass: snippet insertion, idempotent script
// loads and listener wiring. Scripts load concurrently and the join does
// not short-circuit — a hung or failed integration never blocks the
// others. An invalid identifier skips only its own integration. Safe to
// call again within the same page lifetime: already-loaded scripts are
// not requested twice. Cancelling ctx abandons pending loads quietly.
func (in *Injector) Activate(ctx context.Context) {
	if in.cfg == nil || !in.cfg.Configured {
		in.setState(StateInactive)
		return
	}
	in.setState(StateLoading)

	if in.cfg.Method == models.TrackingMethodGTM || in.cfg.Method == models.TrackingMethodBoth {
		in.injectSnippets()
	}

	var urls []string
	if in.cfg.Method == models.TrackingMethodDirect || in.cfg.Method == models.TrackingMethodBoth {
		var pixel bool
		urls, pixel = in.scriptURLs()
		in.mu.Lock()
		in.pixelActive = pixel
		in.mu.Unlock()
	}

	var wg sync.WaitGroup
	for _, u := range urls {
		in.mu.Lock()
		already := in.loaded[u]
		in.mu.Unlock()
		if already {
			continue
		}

		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			if err := in.page.LoadScript(ctx, url); err != nil {
				if ctx.Err() != nil {
					return
				}
				in.logger.Printf("script load failed (continuing): %s: %v", url, err)
				return
			}
			in.mu.Lock()
			in.loaded[url] = true
			in.mu.Unlock()
		}(u)
	}
	wg.Wait()

	if ctx.Err() != nil {
		// Page went away while loading; stop acting on results.
		return
	}

	in.mu.Lock()
	in.conversions = in.cfg.ConversionList()
	in.state = StateActive
	in.mu.Unlock()
}

// scriptURLs collects the scripts the config requests, dropping any
// integration whose identifier fails its format check. The second
// return reports whether the Meta pixel made the cut.
func (in *Injector) scriptURLs() ([]string, bool) {
	ids := in.cfg.DirectIDs
	if ids == nil {
		return nil, false
	}

	var urls []string
	pixel := false
	if ids.GoogleAnalytics != "" {
		if ValidateGA4ID(ids.GoogleAnalytics) {
			urls = append(urls, gtagScriptBase+ids.GoogleAnalytics)
		} else {
			in.logger.Printf("invalid GA4 id %q, skipping analytics", ids.GoogleAnalytics)
		}
	}
	if ids.GoogleAds != nil && ids.GoogleAds.Remarketing != "" {
		if ValidateGoogleAdsID(ids.GoogleAds.Remarketing) {
			urls = append(urls, gtagScriptBase+ids.GoogleAds.Remarketing)
		} else {
			in.logger.Printf("invalid Google Ads id %q, skipping remarketing", ids.GoogleAds.Remarketing)
		}
	}
	if ids.MetaPixel != "" {
		if ValidateMetaPixelID(ids.MetaPixel) {
			urls = append(urls, metaPixelURL)
			pixel = true
		} else {
			in.logger.Printf("invalid Meta pixel id %q, skipping pixel", ids.MetaPixel)
		}
	}
	return urls, pixel
}

func (in *Injector) injectSnippets() {
	snip := in.cfg.GTMSnippet
	if snip == nil {
		return
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	if snip.Head != "" && !in.headInjected {
		if err := ValidateSnippet(snip.Head); err != nil {
			in.logger.Printf("head snippet rejected: %v: %s", err, SafeExcerpt(snip.Head))
		} else if err := in.page.InjectHead(snip.Head); err != nil {
			in.logger.Printf("head snippet injection failed: %v", err)
		} else {
			in.headInjected = true
		}
	}

	if snip.Body != "" && !in.bodyInjected {
		if err := ValidateSnippet(snip.Body); err != nil {
			in.logger.Printf("body snippet rejected: %v: %s", err, SafeExcerpt(snip.Body))
		} else if err := in.page.InjectBody(snip.Body); err != nil {
			in.logger.Printf("body snippet injection failed: %v", err)
		} else {
			in.bodyInjected = true
		}
	}
}

// HandleClick is wired to the document-level delegated click listener.
// The environment walks up to the nearest anchor/button and hands over
// its href; the injector re-derives type and destination with the same
// rules as detection and fires the first enabled conversion that
// matches.
func (in *Injector) HandleClick(href string) {
	in.mu.Lock()
	active := in.state == StateActive
	conversions := in.conversions
	in.mu.Unlock()

	if !active || href == "" {
		return
	}

	t := DetectLinkType(href)
	destination := NormalizeDestination(href, t)

	for _, c := range conversions {
		if !c.TrackingEnabled {
			continue
		}
		if !matches(c, t, destination) {
			continue
		}
		in.fire(c)
		return
	}
}

// HandleSubmit is wired to the delegated submit listener and fires the
// first enabled form conversion.
func (in *Injector) HandleSubmit() {
	in.mu.Lock()
	active := in.state == StateActive
	conversions := in.conversions
	in.mu.Unlock()

	if !active {
		return
	}

	for _, c := range conversions {
		if c.TrackingEnabled && c.Type == models.ConversionForm {
			in.fire(c)
			return
		}
	}
}

// matches applies the type-specific matching rule against the saved
// conversion, preferring a user-customized destination when present.
func matches(c *models.DetectedConversion, t models.ConversionType, destination string) bool {
	if c.Type != t {
		return false
	}
	target := c.EffectiveDestination()
	switch t {
	case models.ConversionForm:
		// Any in-page form target counts; fragments rarely round-trip.
		return true
	case models.ConversionSocial:
		return destination == target || strings.Contains(destination, target)
	default:
		return destination == target
	}
}

func (in *Injector) fire(c *models.DetectedConversion) {
	if c.GoogleAdsID != "" {
		if ValidateGoogleAdsConversion(c.GoogleAdsID) {
			in.net.FireConversion(c.GoogleAdsID)
		} else {
			in.logger.Printf("conversion %s has invalid send_to id %q", c.ID, c.GoogleAdsID)
		}
	}
	in.mu.Lock()
	pixel := in.pixelActive
	in.mu.Unlock()
	if pixel {
		in.net.FireLead()
	}
}

func (in *Injector) setState(s State) {
	in.mu.Lock()
	in.state = s
	in.mu.Unlock()
}
