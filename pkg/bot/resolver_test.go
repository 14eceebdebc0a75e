package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamnhu11204/project-chatbot/config"
	"github.com/tamnhu11204/project-chatbot/pkg/models"
)

type fakeClassifier struct {
	predictions map[string]*models.Prediction
	err         error
	calls       int
}

func (f *fakeClassifier) Predict(_ context.Context, normalizedText string) (*models.Prediction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if prediction, ok := f.predictions[normalizedText]; ok {
		p := *prediction
		return &p, nil
	}
	return &models.Prediction{IntentTag: models.IntentFallback, Confidence: 0.1}, nil
}

func (f *fakeClassifier) Reload(_ context.Context, _ string) error {
	return nil
}

type fakeCatalog struct {
	books       map[string]*models.Book
	orders      map[string]*models.Order
	userOrders  map[string][]models.Order
	unavailable bool
	findCalls   int
}

func (f *fakeCatalog) FindByName(_ context.Context, name string) (*models.Book, error) {
	f.findCalls++
	if f.unavailable {
		return nil, errors.New("connection refused")
	}
	if book, ok := f.books[strings.ToLower(name)]; ok {
		return book, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeCatalog) GetDetail(_ context.Context, _ string) (*models.BookDetail, error) {
	return nil, models.ErrNotFound
}

func (f *fakeCatalog) GetOrderByID(_ context.Context, orderID string) (*models.Order, error) {
	if f.unavailable {
		return nil, errors.New("connection refused")
	}
	if order, ok := f.orders[orderID]; ok {
		return order, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeCatalog) GetOrdersByUser(_ context.Context, userID string) ([]models.Order, error) {
	if f.unavailable {
		return nil, errors.New("connection refused")
	}
	return f.userOrders[userID], nil
}

type fakeTurnLog struct {
	turns []*models.ChatTurn
}

func (f *fakeTurnLog) WriteTurn(_ context.Context, turn *models.ChatTurn) error {
	f.turns = append(f.turns, turn)
	return nil
}

func (f *fakeTurnLog) HighConfidenceInputs(_ context.Context, _ float64) (map[string][]string, error) {
	return nil, nil
}

type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) RequestSupport(_ context.Context, _, message string) error {
	f.messages = append(f.messages, message)
	return f.err
}

type fakeObserver struct {
	turns       []*models.ChatTurn
	predictions []models.Prediction
}

func (f *fakeObserver) ObserveTurn(_ context.Context, turn *models.ChatTurn, prediction models.Prediction) error {
	f.turns = append(f.turns, turn)
	f.predictions = append(f.predictions, prediction)
	return nil
}

type staticCorpus struct {
	corpus *models.IntentCorpus
}

func (s *staticCorpus) Corpus() *models.IntentCorpus         { return s.corpus }
func (s *staticCorpus) Reload() error                        { return nil }
func (s *staticCorpus) AddPattern(_, _ string) (bool, error) { return false, nil }
func (s *staticCorpus) CountPatterns() int                   { return s.corpus.CountPatterns() }

func resolverCorpus() *models.IntentCorpus {
	return &models.IntentCorpus{
		Intents: []models.Intent{
			{
				Tag:       models.IntentGreeting,
				Patterns:  []string{"chào shop", "xin chào"},
				Responses: []string{"Chào bạn! Rất vui được trò chuyện."},
			},
			{
				Tag:       models.IntentFindBook,
				Patterns:  []string{"tìm sách"},
				Responses: []string{"Bạn muốn tìm sách gì?"},
			},
			{
				Tag:       models.IntentPromotion,
				Patterns:  []string{"có khuyến mãi gì không"},
				Responses: []string{"Hiện shop đang giảm giá 20% sách văn học."},
			},
		},
	}
}

type resolverFixture struct {
	resolver   *Resolver
	classifier *fakeClassifier
	catalog    *fakeCatalog
	contexts   *ContextStore
	turnLog    *fakeTurnLog
	notifier   *fakeNotifier
	observer   *fakeObserver
}

func newResolverFixture(classifier *fakeClassifier, catalog *fakeCatalog) *resolverFixture {
	cfg := &config.Config{
		Resolver: config.ResolverConfig{
			LowConfidence:   0.60,
			FallbackMatch:   0.50,
			FallbackAdopted: 0.75,
		},
	}
	fixture := &resolverFixture{
		classifier: classifier,
		catalog:    catalog,
		contexts:   NewContextStore(),
		turnLog:    &fakeTurnLog{},
		notifier:   &fakeNotifier{},
		observer:   &fakeObserver{},
	}
	appState := &models.AppState{
		Config:     cfg,
		Classifier: classifier,
		Catalog:    catalog,
		Notifier:   fixture.notifier,
		Corpus:     &staticCorpus{corpus: resolverCorpus()},
		Contexts:   fixture.contexts,
		TurnLog:    fixture.turnLog,
	}
	fixture.resolver = NewResolver(appState, fixture.observer)
	return fixture
}

func TestResolveFindBookBindsSlotFromUtterance(t *testing.T) {
	fixture := newResolverFixture(
		&fakeClassifier{predictions: map[string]*models.Prediction{
			"tìm sách dế mèn": {IntentTag: models.IntentFindBook, Confidence: 0.92},
		}},
		&fakeCatalog{books: map[string]*models.Book{
			"dế mèn": {ID: "b1", Name: "Dế Mèn", Price: 85000},
		}},
	)

	result, err := fixture.resolver.Resolve(context.Background(), "s1", "u1", "tìm sách Dế Mèn")
	require.NoError(t, err)

	assert.Equal(t, models.IntentFindBook, result.IntentTag)
	assert.Equal(t, models.SourceClassifier, result.Source)
	assert.Contains(t, result.Response, "Dế Mèn")
	assert.Equal(t, "Dế Mèn", result.Context.BookName)
	assert.Equal(t, "b1", result.Context.BookID)
	assert.Equal(t, 85000.0, result.Context.Price)

	require.Len(t, fixture.turnLog.turns, 1)
	assert.Equal(t, 0.92, fixture.turnLog.turns[0].Confidence)
	require.Len(t, fixture.observer.turns, 1)
}

func TestResolveBookPriceBindsSlotFromContext(t *testing.T) {
	fixture := newResolverFixture(
		&fakeClassifier{predictions: map[string]*models.Prediction{
			"tìm sách dế mèn": {IntentTag: models.IntentFindBook, Confidence: 0.9},
			"giá bao nhiêu":   {IntentTag: models.IntentBookPrice, Confidence: 0.9},
		}},
		&fakeCatalog{books: map[string]*models.Book{
			"dế mèn": {ID: "b1", Name: "Dế Mèn", Price: 85000},
		}},
	)

	_, err := fixture.resolver.Resolve(context.Background(), "s1", "u1", "tìm sách Dế Mèn")
	require.NoError(t, err)

	result, err := fixture.resolver.Resolve(context.Background(), "s1", "u1", "giá bao nhiêu")
	require.NoError(t, err)

	assert.Equal(t, models.IntentBookPrice, result.IntentTag)
	assert.Contains(t, result.Response, "Dế Mèn")
	assert.Contains(t, result.Response, "85000")
}

func TestResolveNoFallbackAtThreshold(t *testing.T) {
	// A prediction at the gate is trusted as-is, even when the corpus
	// patterns would point elsewhere.
	fixture := newResolverFixture(
		&fakeClassifier{predictions: map[string]*models.Prediction{
			"tìm sách": {IntentTag: models.IntentGreeting, Confidence: 0.60},
		}},
		&fakeCatalog{},
	)

	result, err := fixture.resolver.Resolve(context.Background(), "s1", "u1", "tìm sách")
	require.NoError(t, err)

	assert.Equal(t, models.IntentGreeting, result.IntentTag)
	assert.Equal(t, models.SourceClassifier, result.Source)
	assert.Equal(t, 0.60, result.Confidence)
}

func TestResolvePatternFallbackAdopted(t *testing.T) {
	fixture := newResolverFixture(
		&fakeClassifier{predictions: map[string]*models.Prediction{
			"có khuyến mãi không": {IntentTag: models.IntentGreeting, Confidence: 0.2},
		}},
		&fakeCatalog{},
	)

	result, err := fixture.resolver.Resolve(context.Background(), "s1", "u1", "có khuyến mãi không")
	require.NoError(t, err)

	assert.Equal(t, models.IntentPromotion, result.IntentTag)
	assert.Equal(t, models.SourcePatternFallback, result.Source)
	assert.Equal(t, 0.75, result.Confidence)
	assert.Contains(t, result.Response, "giảm giá")
}

func TestResolveClarificationPreservesContext(t *testing.T) {
	fixture := newResolverFixture(
		&fakeClassifier{predictions: map[string]*models.Prediction{}},
		&fakeCatalog{},
	)
	fixture.contexts.Merge("s1", models.SessionContext{BookName: "Đắc Nhân Tâm"})

	result, err := fixture.resolver.Resolve(context.Background(), "s1", "u1", "lorem ipsum dolor")
	require.NoError(t, err)

	assert.Equal(t, models.IntentFallback, result.IntentTag)
	assert.Equal(t, ClarificationResponse, result.Response)
	assert.Equal(t, "Đắc Nhân Tâm", result.Context.BookName)
	assert.Empty(t, result.Context.LastIntent)
	require.Len(t, fixture.turnLog.turns, 1)
}

func TestResolveClassifierFailure(t *testing.T) {
	fixture := newResolverFixture(
		&fakeClassifier{err: errors.New("model server down")},
		&fakeCatalog{},
	)

	result, err := fixture.resolver.Resolve(context.Background(), "s1", "u1", "tìm sách hay")
	require.NoError(t, err)

	assert.Equal(t, models.IntentFallback, result.IntentTag)
	assert.Equal(t, ClarificationResponse, result.Response)
	assert.Equal(t, 0.0, result.Confidence)

	// The failed turn is still logged and observed for learning.
	require.Len(t, fixture.turnLog.turns, 1)
	assert.Equal(t, 0.0, fixture.turnLog.turns[0].Confidence)
	require.Len(t, fixture.observer.turns, 1)
}

func TestResolveEmptyInput(t *testing.T) {
	fixture := newResolverFixture(&fakeClassifier{}, &fakeCatalog{})
	fixture.contexts.Merge("s1", models.SessionContext{BookName: "Dế Mèn"})

	result, err := fixture.resolver.Resolve(context.Background(), "s1", "u1", "   ")
	require.NoError(t, err)

	assert.Equal(t, ClarificationResponse, result.Response)
	assert.Equal(t, "Dế Mèn", result.Context.BookName)
	assert.Zero(t, fixture.classifier.calls)
}

func TestResolveBookNotFound(t *testing.T) {
	fixture := newResolverFixture(
		&fakeClassifier{predictions: map[string]*models.Prediction{
			"tìm sách dế mèn": {IntentTag: models.IntentFindBook, Confidence: 0.9},
		}},
		&fakeCatalog{},
	)

	result, err := fixture.resolver.Resolve(context.Background(), "s1", "u1", "tìm sách Dế Mèn")
	require.NoError(t, err)

	assert.Contains(t, result.Response, "không tìm thấy")
	assert.Equal(t, "Dế Mèn", result.Context.BookName)
}

func TestResolveCatalogUnavailable(t *testing.T) {
	fixture := newResolverFixture(
		&fakeClassifier{predictions: map[string]*models.Prediction{
			"tìm sách dế mèn": {IntentTag: models.IntentFindBook, Confidence: 0.9},
		}},
		&fakeCatalog{unavailable: true},
	)

	result, err := fixture.resolver.Resolve(context.Background(), "s1", "u1", "tìm sách Dế Mèn")
	require.NoError(t, err)

	assert.Equal(t, UnavailableResponse, result.Response)
}

func TestResolveOrderStatus(t *testing.T) {
	fixture := newResolverFixture(
		&fakeClassifier{predictions: map[string]*models.Prediction{
			"đơn hàng #a123 sao rồi": {IntentTag: models.IntentOrderStatus, Confidence: 0.9},
		}},
		&fakeCatalog{orders: map[string]*models.Order{
			"a123": {ID: "a123", Status: "Đang giao"},
		}},
	)

	result, err := fixture.resolver.Resolve(context.Background(), "s1", "u1", "Đơn hàng #A123 sao rồi?")
	require.NoError(t, err)

	assert.Contains(t, result.Response, "Đang giao")
	assert.Equal(t, "a123", result.Context.OrderID)
}

func TestResolveOrderStatusListsUserOrders(t *testing.T) {
	fixture := newResolverFixture(
		&fakeClassifier{predictions: map[string]*models.Prediction{
			"đơn hàng của mình sao rồi": {IntentTag: models.IntentOrderStatus, Confidence: 0.9},
		}},
		&fakeCatalog{userOrders: map[string][]models.Order{
			"u1": {
				{ID: "a123", Status: "Đang giao"},
				{ID: "b456", Status: "Đã giao"},
			},
		}},
	)

	result, err := fixture.resolver.Resolve(context.Background(), "s1", "u1", "Đơn hàng của mình sao rồi?")
	require.NoError(t, err)

	assert.Contains(t, result.Response, "a123")
	assert.Contains(t, result.Response, "Đã giao")
	// Listing answers the question without pinning a single order.
	assert.Empty(t, result.Context.OrderID)
}

func TestResolveOrderStatusWithoutUserAsksForOrderID(t *testing.T) {
	fixture := newResolverFixture(
		&fakeClassifier{predictions: map[string]*models.Prediction{
			"đơn hàng của mình sao rồi": {IntentTag: models.IntentOrderStatus, Confidence: 0.9},
		}},
		&fakeCatalog{},
	)

	result, err := fixture.resolver.Resolve(context.Background(), "s1", "", "Đơn hàng của mình sao rồi?")
	require.NoError(t, err)
	assert.Contains(t, result.Response, "mã đơn hàng")
}

func TestResolveSupportEscalates(t *testing.T) {
	fixture := newResolverFixture(
		&fakeClassifier{predictions: map[string]*models.Prediction{
			"cho mình gặp admin": {IntentTag: models.IntentSupport, Confidence: 0.9},
		}},
		&fakeCatalog{},
	)

	result, err := fixture.resolver.Resolve(context.Background(), "s1", "u1", "cho mình gặp admin")
	require.NoError(t, err)

	assert.Equal(t, models.IntentSupport, result.IntentTag)
	assert.Equal(t, SupportAckResponse, result.Response)
	require.Len(t, fixture.notifier.messages, 1)
	assert.Contains(t, fixture.notifier.messages[0], "cho mình gặp admin")
}

func TestResolveSupportEscalationFailureIsTolerated(t *testing.T) {
	fixture := newResolverFixture(
		&fakeClassifier{predictions: map[string]*models.Prediction{
			"cho mình gặp admin": {IntentTag: models.IntentSupport, Confidence: 0.9},
		}},
		&fakeCatalog{},
	)
	fixture.notifier.err = errors.New("chat service down")

	result, err := fixture.resolver.Resolve(context.Background(), "s1", "u1", "cho mình gặp admin")
	require.NoError(t, err)
	assert.NotEqual(t, UnavailableResponse, result.Response)
	assert.NotEmpty(t, result.Response)
}
