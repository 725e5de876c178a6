package marketplace

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"kisan_bazaar/identity"
	"kisan_bazaar/models"
)

var farmer = &identity.User{ID: "farmer-1", DisplayName: "Ramesh Patil", Email: "ramesh@example.com"}

func newTestPipeline(t *testing.T, store Collection, user *identity.User) *Pipeline {
	t.Helper()
	return New(Options{
		Collection:   store,
		Endpoint:     "artifacts/test-app/public/data/listings",
		Identity:     identity.Static{User: user},
		LocationHint: "Nashik, MH",
		Logger:       zaptest.NewLogger(t),
	})
}

func TestPipeline_RefreshInstallsNewestFirst(t *testing.T) {
	store := &fakeCollection{docs: []models.Document{
		doc("c", "Cotton", 7100, t2),
		doc("w", "Wheat", 2400, t1),
	}}
	p := newTestPipeline(t, store, farmer)

	require.NoError(t, p.Refresh(context.Background()))
	assert.Equal(t, []string{"Cotton", "Wheat"}, crops(p.View()))
	assert.False(t, p.Status().Loading)
	assert.NoError(t, p.Status().Err)

	// a criteria change recomputes without another fetch
	p.SetPriceRange(0, 3000)
	assert.Equal(t, []string{"Wheat"}, crops(p.View()))
	assert.Equal(t, []string{"list"}, store.callLog())
}

func TestPipeline_SettersRecompute(t *testing.T) {
	store := &fakeCollection{docs: []models.Document{
		doc("c", "Cotton", 7100, t2),
		doc("w", "Wheat", 2400, t1),
	}}
	p := newTestPipeline(t, store, farmer)
	require.NoError(t, p.Refresh(context.Background()))

	p.SetQuery("whe")
	assert.Equal(t, []string{"Wheat"}, crops(p.View()))

	p.SetQuery("")
	p.SetSort(models.SortPriceHigh)
	assert.Equal(t, []string{"Cotton", "Wheat"}, crops(p.View()))

	p.SetLocation("guntur")
	assert.Empty(t, p.View())

	p.SetLocation("")
	p.SetCategory("fruits")
	assert.Empty(t, p.View())

	p.ResetCriteria()
	assert.Equal(t, models.DefaultCriteria(), p.Criteria())
	assert.Len(t, p.View(), 2)
	assert.Len(t, p.Listings(), 2, "filtering never shrinks the fetched set")
}

func TestPipeline_FetchFailureClearsListings(t *testing.T) {
	store := &fakeCollection{docs: []models.Document{doc("w", "Wheat", 2400, t1)}}
	p := newTestPipeline(t, store, farmer)
	require.NoError(t, p.Refresh(context.Background()))
	p.SetQuery("wheat")
	p.SetSort(models.SortRating)
	before := p.Criteria()

	store.mu.Lock()
	store.listErr = errors.New("permission denied")
	store.mu.Unlock()

	err := p.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransport(err))

	assert.Empty(t, p.View())
	assert.Empty(t, p.Listings())
	assert.Equal(t, before, p.Criteria())
	assert.Equal(t, "Could not fetch listings. Please check your connection and try again.", p.Status().Banner())
}

func TestPipeline_NotConfigured(t *testing.T) {
	p := New(Options{})
	err := p.Refresh(context.Background())
	assert.True(t, IsConfiguration(err))
	assert.Equal(t, "Marketplace configuration error. Cannot load listings.", p.Status().Banner())

	p = New(Options{Collection: &fakeCollection{}})
	assert.True(t, IsConfiguration(p.Refresh(context.Background())))
}

func TestPipeline_NotConfiguredSupersedesEarlierFetch(t *testing.T) {
	p := New(Options{})
	p.seq = 3 // a fetch issued earlier is still in flight

	require.Error(t, p.Refresh(context.Background()))
	assert.Equal(t, uint64(4), p.seq)
	assert.True(t, IsConfiguration(p.Status().Err))
}

func TestPipeline_SubmitValidationKeepsForm(t *testing.T) {
	store := &fakeCollection{}
	p := newTestPipeline(t, store, farmer)

	form := validForm()
	form.Quantity = "0"

	_, err := p.Submit(context.Background(), form)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, store.callLog(), "nothing reaches storage")
	assert.Equal(t, form, p.Form())
	assert.Equal(t, "Quantity and Price must be valid positive numbers.", p.Status().Banner())
}

func TestPipeline_SubmitCreatesAndRefreshes(t *testing.T) {
	store := &fakeCollection{docs: []models.Document{doc("w", "Wheat", 2400, t1)}}
	p := newTestPipeline(t, store, farmer)

	form := validForm()
	form.Description = "  Aged one year  "
	id, err := p.Submit(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "new-1", id)

	assert.Equal(t, []string{"create", "list"}, store.callLog())
	assert.Equal(t, models.DefaultForm("Nashik, MH"), p.Form())
	assert.NoError(t, p.Status().SubmitErr)

	require.Len(t, store.created, 1)
	created := store.created[0]
	assert.Equal(t, "Basmati Rice", created[models.FieldCrop])
	assert.Equal(t, 25.0, created[models.FieldQuantity])
	assert.Equal(t, 3850.5, created[models.FieldPrice])
	assert.Equal(t, "Aged one year", created[models.FieldDescription])
	assert.Equal(t, "Ramesh Patil", created[models.FieldFarmer])
	assert.Equal(t, "farmer-1", created[models.FieldFarmerID])
	assert.Equal(t, models.ListingStatusActive, created[models.FieldStatus])
	assert.Equal(t, "grains", created[models.FieldCategory])
	assert.Equal(t, "❓", created[models.FieldCropIcon])
	assert.Equal(t, 0, created[models.FieldViews])
	assert.Equal(t, 0, created[models.FieldRating])
	assert.NotContains(t, created, models.FieldDatePosted, "timestamp is assigned by storage")
	assert.NotContains(t, created, models.FieldImage, "empty image is omitted")

	assert.Equal(t, []string{"Basmati Rice", "Wheat"}, crops(p.View()))
}

func TestPipeline_SubmitStorageFailureKeepsForm(t *testing.T) {
	store := &fakeCollection{createErr: errors.New("network unreachable")}
	p := newTestPipeline(t, store, farmer)

	form := validForm()
	_, err := p.Submit(context.Background(), form)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Equal(t, []string{"create"}, store.callLog(), "no retry and no refresh")
	assert.Equal(t, form, p.Form())
	assert.Equal(t, "Failed to add listing: network unreachable. Please try again.", p.Status().Banner())
}

func TestPipeline_SubmitNeedsSignedInUser(t *testing.T) {
	store := &fakeCollection{}

	p := newTestPipeline(t, store, nil)
	_, err := p.Submit(context.Background(), validForm())
	assert.True(t, IsConfiguration(err))

	p = newTestPipeline(t, store, &identity.User{ID: "anon", Anonymous: true})
	_, err = p.Submit(context.Background(), validForm())
	assert.True(t, IsValidation(err))

	assert.Empty(t, store.callLog())
}

func TestPipeline_StaleFetchDiscarded(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{})
	release := make(chan struct{})
	store := &fakeCollection{listFn: func(call int) ([]models.Document, error) {
		if call == 1 {
			close(started)
			<-release
			return []models.Document{doc("old", "Stale Onion", 100, t1)}, nil
		}
		return []models.Document{doc("new", "Fresh Onion", 120, t2)}, nil
	}}
	p := newTestPipeline(t, store, farmer)

	done := make(chan error, 1)
	go func() { done <- p.Refresh(context.Background()) }()
	<-started

	require.NoError(t, p.Refresh(context.Background()))
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"Fresh Onion"}, crops(p.Listings()))
	assert.False(t, p.Status().Loading)
}

func TestPipeline_StaleFailureDoesNotClear(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{})
	release := make(chan struct{})
	store := &fakeCollection{listFn: func(call int) ([]models.Document, error) {
		if call == 1 {
			close(started)
			<-release
			return nil, errors.New("timeout")
		}
		return []models.Document{doc("new", "Fresh Onion", 120, t2)}, nil
	}}
	p := newTestPipeline(t, store, farmer)

	done := make(chan error, 1)
	go func() { done <- p.Refresh(context.Background()) }()
	<-started

	require.NoError(t, p.Refresh(context.Background()))
	close(release)
	assert.NoError(t, <-done)

	assert.Len(t, p.View(), 1)
	assert.NoError(t, p.Status().Err)
}

func TestPipeline_SubscribersSeeEveryRecompute(t *testing.T) {
	store := &fakeCollection{docs: []models.Document{doc("w", "Wheat", 2400, t1)}}
	p := newTestPipeline(t, store, farmer)

	var mu sync.Mutex
	var sizes []int
	p.Subscribe(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		sizes = append(sizes, len(s.View))
	})

	require.NoError(t, p.Refresh(context.Background()))
	p.SetQuery("cotton")

	mu.Lock()
	defer mu.Unlock()
	// loading, loaded, filtered
	assert.Equal(t, []int{0, 1, 0}, sizes)
}

func TestPipeline_Find(t *testing.T) {
	store := &fakeCollection{docs: []models.Document{doc("w", "Wheat", 2400, t1)}}
	p := newTestPipeline(t, store, farmer)
	require.NoError(t, p.Refresh(context.Background()))

	l, ok := p.Find("w")
	require.True(t, ok)
	assert.Equal(t, "Wheat", l.Crop)

	_, ok = p.Find("missing")
	assert.False(t, ok)
}
