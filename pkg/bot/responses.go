package bot

import (
	"fmt"
	"strings"

	"github.com/tamnhu11204/project-chatbot/pkg/models"
)

// Fixed fallback texts used when the corpus has no template for a
// situation. The corpus template always wins when present.
const (
	ClarificationResponse = "Mình không chắc lắm. Bạn có thể nói rõ hơn không?"
	UnavailableResponse   = "Hệ thống đang bận, bạn vui lòng thử lại sau nhé!"
	SupportAckResponse    = "Mình đã gửi yêu cầu hỗ trợ đến admin. Vui lòng chờ trong giây lát!"
)

// staticRules are the self-contained rule responses, used when an intent
// exists but carries no responses in the corpus.
var staticRules = map[string]string{
	models.IntentGreeting:    "Chào bạn! Rất vui được trò chuyện.",
	models.IntentGoodbye:     "Tạm biệt! Hẹn gặp lại nhé.",
	models.IntentOpenHour:    "Chúng tôi mở cửa từ 9h sáng đến 9h tối.",
	models.IntentBookPrice:   "Vui lòng cung cấp tên sách để mình kiểm tra giá nhé!",
	models.IntentFindBook:    "Bạn muốn tìm sách gì? Cung cấp tên hoặc thể loại nhé!",
	models.IntentOrderBook:   "Bạn muốn đặt sách nào? Mình sẽ hướng dẫn cách đặt nhé!",
	models.IntentSupport:     "Mình sẽ chuyển yêu cầu của bạn đến admin ngay!",
	models.IntentPromotion:   "Hiện tại shop có chương trình giảm giá 20% cho sách văn học. Bạn muốn xem chi tiết không?",
	models.IntentOrderStatus: "Vui lòng cung cấp mã đơn hàng để mình kiểm tra trạng thái nhé!",
	models.IntentAccept:      "Cảm ơn bạn đã đồng ý!",
	models.IntentFallback:    ClarificationResponse,
}

// Responder assembles user-facing responses from corpus templates and slot
// values. It never exposes internal error detail.
type Responder struct {
	corpus models.CorpusStore
}

func NewResponder(corpus models.CorpusStore) *Responder {
	return &Responder{corpus: corpus}
}

// ResponseFor returns the first response template of the tagged intent,
// falling back to the static rule table, then to clarification.
func (r *Responder) ResponseFor(tag string) string {
	if intent := r.corpus.Corpus().Get(tag); intent != nil && len(intent.Responses) > 0 {
		return intent.Responses[0]
	}
	if response, ok := staticRules[tag]; ok {
		return response
	}
	return ClarificationResponse
}

// Clarification is the response for turns the bot could not understand.
func (r *Responder) Clarification() string {
	return r.ResponseFor(models.IntentFallback)
}

func (r *Responder) BookFound(book *models.Book) string {
	return fmt.Sprintf("Mình tìm thấy sách %s, giá %.0f VND. Bạn muốn đặt không?", book.Name, book.Price)
}

func (r *Responder) BookPrice(book *models.Book) string {
	return fmt.Sprintf("Giá sách %s là %.0f VND.", book.Name, book.Price)
}

func (r *Responder) BookNotFound(name string) string {
	return fmt.Sprintf("Xin lỗi, mình không tìm thấy sách %q. Bạn kiểm tra lại tên giúp mình nhé!", name)
}

func (r *Responder) OrderBook(name string) string {
	return fmt.Sprintf("Bạn muốn đặt sách %s? Mình sẽ hướng dẫn cách đặt nhé!", name)
}

func (r *Responder) OrderStatus(order *models.Order) string {
	return fmt.Sprintf("Đơn hàng %s đang ở trạng thái: %s.", order.ID, order.Status)
}

func (r *Responder) OrderNotFound(orderID string) string {
	return fmt.Sprintf("Xin lỗi, mình không tìm thấy đơn hàng %q.", orderID)
}

func (r *Responder) OrderList(orders []models.Order) string {
	var b strings.Builder
	b.WriteString("Các đơn hàng gần đây của bạn:")
	for _, order := range orders {
		fmt.Fprintf(&b, "\n- Đơn %s: %s", order.ID, order.Status)
	}
	return b.String()
}

func (r *Responder) NoOrders() string {
	return "Bạn chưa có đơn hàng nào. Nếu có mã đơn, bạn gửi mình kiểm tra nhé!"
}
