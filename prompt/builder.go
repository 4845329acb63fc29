// Package prompt builds the bounded context payload sent to the LLM proxy.
package prompt

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/minasamy417/resultsboard/domain"
)

// DefaultCap bounds the serialized data section, in characters.
const DefaultCap = 26000

// instructions is the fixed preamble. It always precedes the data section
// and is never subject to truncation.
const instructions = `أنت "مساعد الخدمة الذكي"، خبير تحليل بيانات ومشرف روحي في "مجتمع يسوع".
دورك ليس فقط سرد البيانات، بل تحليلها بعمق لتقديم رؤية شاملة تساعد في بناء الخدام.

**البيانات المتاحة:**
لديك ملخصات لكل خادم ثم قائمة بنتائج الكورسات. كل سطر في النتائج يمثل كورس واحد أخذه الخادم. الخادم الواحد قد يكون له عدة أسطر.

**مهامك عند السؤال عن خادم معين:**
1.  **تجميع البيانات:** ابحث عن كل الكورسات التي أخذها هذا الخادم واجمعها ذهنياً.
2.  **تحليل الأداء (نقاط القوة):** الدرجات المرتفعة والحضور الكامل.
3.  **تحليل الفجوات (نقاط الضعف):** الغياب المتكرر والدرجات المنخفضة وحالات "غائب" في الامتحان.
4.  **تقديم الحلول:** اقترح حلولاً عملية.
5.  **التشجيع:** قدم كلمة تشجيعية تناسب حالته.

**هيكل الإجابة المطلوب:** استخدم عناوين تنتهي بنقطتين ونقاط تبدأ بشرطة، مع **تمييز** الأرقام والأسماء المهمة.

**قواعد عامة:**
* إذا كان الاسم ثنائياً في السؤال والبيانات ثلاثية، اعتبره نفس الشخص.
* تغاضَ عن أخطاء الهمزات والياء (ي/ى).
* كن مشجعاً ومحترفاً في نفس الوقت.`

// behavioralUnavailable is substituted for the behavioral section when no
// behavioral data exists, so the model states that instead of inventing it.
const behavioralUnavailable = `**ملاحظة:** لا تتوفر بيانات تقييم سلوكي لهذه المجموعة. إذا سُئلت عن السلوك فاذكر بوضوح أن التحليل السلوكي غير متاح.`

const behavioralPreface = `**التقييم السلوكي:** لديك أيضاً ملاحظات تقييم سلوكي لكل خادم، ادمجها في تحليلك عند الحاجة.`

// Builder assembles context payloads with a fixed data-section cap.
type Builder struct {
	limit int
}

// NewBuilder returns a Builder. A non-positive limit falls back to DefaultCap.
func NewBuilder(limit int) *Builder {
	if limit <= 0 {
		limit = DefaultCap
	}
	return &Builder{limit: limit}
}

// Cap reports the configured data-section cap.
func (b *Builder) Cap() int {
	return b.limit
}

// payload is the serialized data section.
type payload struct {
	Summaries  []domain.PersonSummary  `json:"summaries"`
	Records    []domain.Record         `json:"records"`
	Behavioral []domain.BehavioralNote `json:"behavioral,omitempty"`
}

// Build constructs the full prompt: instructions, then the size-capped
// data section, then the user question as a trailing section. Pure string
// construction; the caller performs the network call.
func (b *Builder) Build(records []domain.Record, summaries []domain.PersonSummary, behavioral domain.BehavioralSet, question string) string {
	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")

	if behavioral.Present {
		sb.WriteString(behavioralPreface)
	} else {
		sb.WriteString(behavioralUnavailable)
	}
	sb.WriteString("\n\n")

	p := payload{Summaries: summaries, Records: records}
	if behavioral.Present {
		p.Behavioral = behavioral.Notes
	}
	data, err := json.Marshal(p)
	if err != nil {
		// Only unmarshalable values reach here; plain structs never do.
		data = []byte("{}")
	}

	sb.WriteString("البيانات: ")
	sb.WriteString(CapLength(string(data), b.limit))
	sb.WriteString("\n\nسؤال المستخدم: ")
	sb.WriteString(question)
	return sb.String()
}

// CapLength truncates s to at most limit characters, cutting from the tail
// only. Truncation never lands inside a UTF-8 sequence.
func CapLength(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := s[:limit]
	// Back off if the slice landed inside a multi-byte rune.
	for len(cut) > 0 {
		r, size := utf8.DecodeLastRuneInString(cut)
		if r != utf8.RuneError || size != 1 {
			break
		}
		cut = cut[:len(cut)-1]
	}
	return cut
}
