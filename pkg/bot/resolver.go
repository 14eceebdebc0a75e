package bot

import (
	"context"
	"errors"
	"time"

	"github.com/tamnhu11204/project-chatbot/pkg/models"
	"github.com/tamnhu11204/project-chatbot/pkg/nlp"
)

// TurnObserver watches every resolved turn. The feedback collector
// implements this to record correction candidates.
type TurnObserver interface {
	ObserveTurn(ctx context.Context, turn *models.ChatTurn, prediction models.Prediction) error
}

// TurnResult is what one resolved turn hands back to the transport layer.
type TurnResult struct {
	Response   string                  `json:"response"`
	IntentTag  string                  `json:"intent"`
	Confidence float64                 `json:"confidence"`
	Source     models.PredictionSource `json:"source"`
	Context    models.SessionContext   `json:"context"`
}

// Resolver turns one utterance into an (intent, confidence, response)
// decision. It runs the statistical classifier, gates on confidence, falls
// back to the pattern matcher, binds missing slots from session context and
// issues at most one catalog call per need. All failures surface to the
// user as graceful natural-language responses, never as transport errors.
type Resolver struct {
	appState   *models.AppState
	observer   TurnObserver
	normalizer *nlp.Normalizer
	matcher    *nlp.Matcher
	slots      *nlp.SlotExtractor
	responder  *Responder
}

func NewResolver(appState *models.AppState, observer TurnObserver) *Resolver {
	normalizer := nlp.NewNormalizer(nil)
	return &Resolver{
		appState:   appState,
		observer:   observer,
		normalizer: normalizer,
		matcher:    nlp.NewMatcher(normalizer),
		slots:      nlp.NewSlotExtractor(nil),
		responder:  NewResponder(appState.Corpus),
	}
}

// Resolve handles one turn for a session. The returned error is reserved
// for programming errors; user-visible failures are already folded into the
// TurnResult.
func (r *Resolver) Resolve(ctx context.Context, sessionID, userID, message string) (*TurnResult, error) {
	utterance := models.Utterance{
		Raw:        message,
		Normalized: r.normalizer.Normalize(message),
		ReceivedAt: time.Now(),
		SessionID:  sessionID,
		UserID:     userID,
	}

	// Input error: clarify locally, preserve context.
	if utterance.Normalized == "" {
		prediction := models.Prediction{
			IntentTag:  models.IntentFallback,
			Confidence: 0,
			Source:     models.SourceClassifier,
		}
		return r.finishTurn(ctx, utterance, prediction, r.responder.Clarification()), nil
	}

	prediction, understood := r.classify(ctx, utterance.Normalized)
	if !understood {
		// Clarification turn: context must be left untouched so the next
		// attempt can still resolve elliptical references.
		return r.finishTurn(ctx, utterance, prediction, r.responder.Clarification()), nil
	}

	response, update := r.fulfill(ctx, utterance, prediction)
	return r.finishTurnWithUpdate(ctx, utterance, prediction, response, update), nil
}

// classify runs the classifier and the confidence-gated pattern fallback.
// The second return value is false when the turn should be answered with a
// clarification.
func (r *Resolver) classify(ctx context.Context, normalized string) (models.Prediction, bool) {
	predicted, err := r.appState.Classifier.Predict(ctx, normalized)
	if err != nil {
		// The classifier being unavailable is fatal for this turn: no
		// silent wrong answer. The turn is still logged with confidence 0.
		log.Errorf("classifier predict failed: %v", err)
		return models.Prediction{
			IntentTag:  models.IntentFallback,
			Confidence: 0,
			Source:     models.SourceClassifier,
		}, false
	}

	prediction := *predicted
	prediction.Source = models.SourceClassifier

	if prediction.Confidence >= r.appState.Config.Resolver.LowConfidence {
		return prediction, true
	}

	tag := r.matcher.Match(normalized, r.appState.Corpus.Corpus(), r.appState.Config.Resolver.FallbackMatch)
	if tag == "" {
		return models.Prediction{
			IntentTag:  models.IntentFallback,
			Confidence: prediction.Confidence,
			Source:     models.SourceClassifier,
		}, false
	}
	return models.Prediction{
		IntentTag:  tag,
		Confidence: r.appState.Config.Resolver.FallbackAdopted,
		Source:     models.SourcePatternFallback,
	}, true
}

// fulfill binds slots and produces the response for a confidently resolved
// intent, issuing at most one catalog call.
func (r *Resolver) fulfill(
	ctx context.Context,
	utterance models.Utterance,
	prediction models.Prediction,
) (string, models.SessionContext) {
	current := r.appState.Contexts.Get(utterance.SessionID)
	update := models.SessionContext{
		LastIntent: prediction.IntentTag,
		LastInput:  utterance.Raw,
	}

	switch prediction.IntentTag {
	case models.IntentFindBook:
		name := r.bookName(utterance.Normalized, current)
		if name == "" {
			return r.responder.ResponseFor(prediction.IntentTag), update
		}
		return r.lookupBook(ctx, name, &update, r.responder.BookFound)

	case models.IntentBookPrice:
		name := r.bookName(utterance.Normalized, current)
		if name == "" {
			// Ask for the missing slot; no side-effecting lookups.
			return r.responder.ResponseFor(prediction.IntentTag), update
		}
		return r.lookupBook(ctx, name, &update, r.responder.BookPrice)

	case models.IntentOrderBook:
		name := r.bookName(utterance.Normalized, current)
		if name == "" {
			return r.responder.ResponseFor(prediction.IntentTag), update
		}
		update.BookName = name
		return r.responder.OrderBook(name), update

	case models.IntentOrderStatus:
		orderID := r.slots.ExtractOrderID(utterance.Normalized)
		if orderID == "" {
			orderID = current.OrderID
		}
		if orderID == "" {
			if utterance.UserID != "" {
				return r.listOrders(ctx, utterance.UserID), update
			}
			return r.responder.ResponseFor(prediction.IntentTag), update
		}
		update.OrderID = orderID
		return r.lookupOrder(ctx, orderID), update

	case models.IntentSupport:
		if r.escalate(ctx, utterance) {
			return SupportAckResponse, update
		}
		return r.responder.ResponseFor(prediction.IntentTag), update

	case models.IntentFallback:
		r.escalate(ctx, utterance)
		return r.responder.ResponseFor(prediction.IntentTag), update

	default:
		// Self-contained rule response; no external call.
		return r.responder.ResponseFor(prediction.IntentTag), update
	}
}

// bookName resolves the book slot: first from the utterance, then from
// session context.
func (r *Resolver) bookName(normalized string, current models.SessionContext) string {
	if name := r.slots.ExtractBookName(normalized); name != "" {
		return name
	}
	return current.BookName
}

// lookupBook issues the single catalog call for book intents. Not-found and
// transport failures are folded into fixed responses; a resolved book's id
// and price are learned into the context update.
func (r *Resolver) lookupBook(
	ctx context.Context,
	name string,
	update *models.SessionContext,
	respond func(*models.Book) string,
) (string, models.SessionContext) {
	update.BookName = name

	book, err := r.appState.Catalog.FindByName(ctx, name)
	switch {
	case err == nil:
		update.BookName = book.Name
		update.BookID = book.ID
		update.Price = book.Price
		return respond(book), *update
	case errors.Is(err, models.ErrNotFound):
		return r.responder.BookNotFound(name), *update
	default:
		log.Errorf("catalog lookup failed for %q: %v", name, err)
		return UnavailableResponse, *update
	}
}

// listOrders answers an order-status question that names no order: the
// user's recent orders stand in for the missing slot.
func (r *Resolver) listOrders(ctx context.Context, userID string) string {
	orders, err := r.appState.Catalog.GetOrdersByUser(ctx, userID)
	switch {
	case err == nil && len(orders) > 0:
		return r.responder.OrderList(orders)
	case err == nil || errors.Is(err, models.ErrNotFound):
		return r.responder.NoOrders()
	default:
		log.Errorf("order list failed for %q: %v", userID, err)
		return UnavailableResponse
	}
}

func (r *Resolver) lookupOrder(ctx context.Context, orderID string) string {
	order, err := r.appState.Catalog.GetOrderByID(ctx, orderID)
	switch {
	case err == nil:
		return r.responder.OrderStatus(order)
	case errors.Is(err, models.ErrNotFound):
		return r.responder.OrderNotFound(orderID)
	default:
		log.Errorf("order lookup failed for %q: %v", orderID, err)
		return UnavailableResponse
	}
}

// escalate notifies a human operator and reports whether the notification
// went through. Best effort: failures are logged and never shown to the user.
func (r *Resolver) escalate(ctx context.Context, utterance models.Utterance) bool {
	if r.appState.Notifier == nil {
		return false
	}
	message := "Chatbot cần hỗ trợ: " + utterance.Raw
	if err := r.appState.Notifier.RequestSupport(ctx, utterance.UserID, message); err != nil {
		log.Warnf("admin support escalation failed: %v", err)
		return false
	}
	return true
}

// finishTurn completes a turn that leaves the session context unchanged.
func (r *Resolver) finishTurn(
	ctx context.Context,
	utterance models.Utterance,
	prediction models.Prediction,
	response string,
) *TurnResult {
	sessionContext := r.appState.Contexts.Get(utterance.SessionID)
	return r.logAndObserve(ctx, utterance, prediction, response, sessionContext)
}

// finishTurnWithUpdate merges the context update, then logs and observes.
func (r *Resolver) finishTurnWithUpdate(
	ctx context.Context,
	utterance models.Utterance,
	prediction models.Prediction,
	response string,
	update models.SessionContext,
) *TurnResult {
	sessionContext := r.appState.Contexts.Merge(utterance.SessionID, update)
	return r.logAndObserve(ctx, utterance, prediction, response, sessionContext)
}

func (r *Resolver) logAndObserve(
	ctx context.Context,
	utterance models.Utterance,
	prediction models.Prediction,
	response string,
	sessionContext models.SessionContext,
) *TurnResult {
	turn := &models.ChatTurn{
		SessionID:  utterance.SessionID,
		UserID:     utterance.UserID,
		Input:      utterance.Raw,
		Response:   response,
		IntentTag:  prediction.IntentTag,
		Confidence: prediction.Confidence,
		Context:    sessionContext,
		CreatedAt:  time.Now(),
	}
	if err := r.appState.TurnLog.WriteTurn(ctx, turn); err != nil {
		log.Errorf("failed to write turn log: %v", err)
	}
	if r.observer != nil {
		if err := r.observer.ObserveTurn(ctx, turn, prediction); err != nil {
			log.Errorf("failed to observe turn: %v", err)
		}
	}

	return &TurnResult{
		Response:   response,
		IntentTag:  prediction.IntentTag,
		Confidence: prediction.Confidence,
		Source:     prediction.Source,
		Context:    sessionContext,
	}
}
