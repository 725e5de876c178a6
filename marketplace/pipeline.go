package marketplace

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"kisan_bazaar/identity"
	"kisan_bazaar/models"
)

const defaultFetchTimeout = 30 * time.Second

// Collection is the remote document collection the pipeline reads from and writes to.
// List returns every document ordered by server timestamp, newest first. Create stores
// a new document; the backend assigns the id and the timestamp.
type Collection interface {
	List(ctx context.Context) ([]models.Document, error)
	Create(ctx context.Context, fields map[string]any) (string, error)
}

// Status is the loading and error state shown next to the listing view.
type Status struct {
	Loading    bool
	Submitting bool
	Err        error // last fetch or configuration failure
	SubmitErr  error // last rejected or failed submission
}

// Banner is the user-facing message for the current status, if any.
func (s Status) Banner() string {
	if s.SubmitErr != nil {
		return UserMessage(s.SubmitErr)
	}
	return UserMessage(s.Err)
}

// Snapshot is a consistent copy of the pipeline state handed to subscribers.
type Snapshot struct {
	View     []models.Listing
	Total    int
	Criteria models.Criteria
	Status   Status
}

type Options struct {
	Collection Collection
	// Endpoint identifies the collection (the app-scoped path). Empty means unconfigured.
	Endpoint     string
	Identity     identity.Provider
	Categories   []models.Category
	LocationHint string
	FetchTimeout time.Duration
	Logger       *zap.Logger
}

// Pipeline owns the fetched listings, the filter criteria, the derived view and the
// add-listing form. All state is reachable only through its methods.
type Pipeline struct {
	store        Collection
	endpoint     string
	identity     identity.Provider
	categories   []models.Category
	timeout      time.Duration
	logger       *zap.Logger
	locationHint string

	mu          sync.Mutex
	seq         uint64 // last issued fetch request
	listings    []models.Listing
	view        []models.Listing
	criteria    models.Criteria
	form        models.ListingForm
	status      Status
	subscribers []func(Snapshot)
}

func New(opts Options) *Pipeline {
	p := &Pipeline{
		store:        opts.Collection,
		endpoint:     opts.Endpoint,
		identity:     opts.Identity,
		categories:   opts.Categories,
		timeout:      opts.FetchTimeout,
		logger:       opts.Logger,
		locationHint: opts.LocationHint,
		criteria:     models.DefaultCriteria(),
		form:         models.DefaultForm(opts.LocationHint),
	}
	if p.categories == nil {
		p.categories = models.DefaultCategories
	}
	if p.timeout <= 0 {
		p.timeout = defaultFetchTimeout
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	p.view = Apply(nil, p.criteria)
	return p
}

// Subscribe registers fn to receive a snapshot after every change of the view or status.
func (p *Pipeline) Subscribe(fn func(Snapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, fn)
}

// Refresh runs the fetch stage. Only the newest request may install its result; a
// response that arrives after a later request was issued is dropped.
func (p *Pipeline) Refresh(ctx context.Context) error {
	if err := p.checkConfigured(); err != nil {
		p.update(func() {
			p.seq++
			p.status.Loading = false
			p.status.Err = err
		})
		p.logger.Error("Marketplace not configured", zap.Error(err))
		return err
	}

	var seq uint64
	p.update(func() {
		p.seq++
		seq = p.seq
		p.status.Loading = true
		p.status.Err = nil
	})

	p.logger.Debug("Fetching listings", zap.String("collection", p.endpoint), zap.Uint64("seq", seq))

	fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
	docs, err := p.store.List(fetchCtx)
	cancel()

	var listings []models.Listing
	if err == nil {
		listings = NormalizeAll(docs)
	}

	var fetchErr error
	stale := false
	p.update(func() {
		if seq != p.seq {
			stale = true
			return
		}
		p.status.Loading = false
		if err != nil {
			fetchErr = &TransportError{Op: "fetch", Err: err}
			p.status.Err = fetchErr
			p.listings = nil
			return
		}
		p.listings = listings
	})

	switch {
	case stale:
		p.logger.Debug("Discarding superseded fetch", zap.Uint64("seq", seq))
		return nil
	case fetchErr != nil:
		p.logger.Error("Error fetching listings", zap.Error(err))
		return fetchErr
	}

	p.logger.Info("Fetched listings", zap.Int("count", len(listings)))
	return nil
}

// Submit runs the write stage: validate the form, create one document, re-fetch, and
// clear the form. On any failure the form keeps the entered values.
func (p *Pipeline) Submit(ctx context.Context, form models.ListingForm) (string, error) {
	p.update(func() {
		p.form = form
		p.status.Submitting = true
		p.status.SubmitErr = nil
	})

	id, err := p.create(ctx, form)

	p.update(func() {
		p.status.Submitting = false
		p.status.SubmitErr = err
	})
	if err != nil {
		if IsValidation(err) {
			p.logger.Debug("Listing rejected", zap.Error(err))
		} else {
			p.logger.Error("Error adding listing", zap.Error(err))
		}
		return "", err
	}

	p.logger.Info("Listing added", zap.String("id", id))

	if err := p.Refresh(ctx); err != nil {
		p.logger.Warn("Refresh after add failed", zap.Error(err))
	}

	p.update(func() {
		p.form = models.DefaultForm(p.locationHint)
	})
	return id, nil
}

func (p *Pipeline) create(ctx context.Context, form models.ListingForm) (string, error) {
	if err := p.checkConfigured(); err != nil {
		return "", err
	}
	if p.identity == nil {
		return "", &ConfigurationError{Missing: "identity provider"}
	}
	user, err := p.identity.CurrentUser()
	if err != nil {
		if errors.Is(err, identity.ErrNoUser) {
			return "", &ConfigurationError{Missing: "signed-in user"}
		}
		return "", &ConfigurationError{Missing: fmt.Sprintf("identity (%v)", err)}
	}
	if user.Anonymous {
		return "", &ValidationError{Field: "user", Message: "Please sign in to add a listing."}
	}

	valid, err := Validate(form)
	if err != nil {
		return "", err
	}

	category, icon := InferCategory(valid.Crop, p.categories)
	doc := NewDocument(valid, user, category, icon)

	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	id, err := p.store.Create(writeCtx, doc)
	if err != nil {
		return "", &TransportError{Op: "create", Err: err}
	}
	return id, nil
}

// NewDocument builds the fields of a new listing. The timestamp is left to the
// storage layer; counters and rating start at zero.
func NewDocument(v *ValidListing, user *identity.User, category, icon string) map[string]any {
	doc := map[string]any{
		models.FieldCrop:        v.Crop,
		models.FieldQuantity:    v.Quantity,
		models.FieldPrice:       v.Price,
		models.FieldGrade:       v.Grade,
		models.FieldLocation:    v.Location,
		models.FieldContact:     v.Contact,
		models.FieldDescription: v.Description,
		models.FieldFarmer:      user.FarmerName(),
		models.FieldFarmerID:    user.ID,
		models.FieldStatus:      models.ListingStatusActive,
		models.FieldViews:       0,
		models.FieldInquiries:   0,
		models.FieldCategory:    category,
		models.FieldFarmerImage: models.DefaultFarmerImage,
		models.FieldCropIcon:    icon,
		models.FieldRating:      0,
		models.FieldReviews:     0,
	}
	if v.Image != "" {
		doc[models.FieldImage] = v.Image
	}
	return doc
}

func (p *Pipeline) checkConfigured() error {
	if p.store == nil {
		return &ConfigurationError{Missing: "collection"}
	}
	if p.endpoint == "" {
		return &ConfigurationError{Missing: "collection endpoint"}
	}
	return nil
}

// SetQuery sets the free-text search.
func (p *Pipeline) SetQuery(q string) {
	p.update(func() { p.criteria.Query = q })
}

func (p *Pipeline) SetCategory(category string) {
	if category == "" {
		category = models.CategoryAll
	}
	p.update(func() { p.criteria.Category = category })
}

// SetPriceRange sets the inclusive price bounds.
func (p *Pipeline) SetPriceRange(minPrice, maxPrice float64) {
	p.update(func() {
		p.criteria.PriceMin = minPrice
		p.criteria.PriceMax = maxPrice
	})
}

func (p *Pipeline) SetLocation(location string) {
	p.update(func() { p.criteria.Location = location })
}

func (p *Pipeline) SetSort(key models.SortKey) {
	p.update(func() { p.criteria.Sort = key })
}

// SetCriteria replaces every criteria field at once.
func (p *Pipeline) SetCriteria(c models.Criteria) {
	if c.Category == "" {
		c.Category = models.CategoryAll
	}
	p.update(func() { p.criteria = c })
}

func (p *Pipeline) ResetCriteria() {
	p.update(func() { p.criteria = models.DefaultCriteria() })
}

// View is the current filtered and sorted listing sequence.
func (p *Pipeline) View() []models.Listing {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Listing(nil), p.view...)
}

// Listings is the last installed fetch result, unfiltered.
func (p *Pipeline) Listings() []models.Listing {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Listing(nil), p.listings...)
}

func (p *Pipeline) Criteria() models.Criteria {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.criteria
}

func (p *Pipeline) Form() models.ListingForm {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form
}

func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Find returns a fetched listing by id.
func (p *Pipeline) Find(id string) (models.Listing, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, l := range p.listings {
		if l.ID == id {
			return l, true
		}
	}
	return models.Listing{}, false
}

// update applies fn under the lock, recomputes the view, and notifies subscribers
// once the lock is released.
func (p *Pipeline) update(fn func()) {
	p.mu.Lock()
	fn()
	p.view = Apply(p.listings, p.criteria)
	snap := p.snapshotLocked()
	subs := slices.Clone(p.subscribers)
	p.mu.Unlock()

	for _, s := range subs {
		s(snap)
	}
}

func (p *Pipeline) snapshotLocked() Snapshot {
	return Snapshot{
		View:     append([]models.Listing(nil), p.view...),
		Total:    len(p.listings),
		Criteria: p.criteria,
		Status:   p.status,
	}
}
