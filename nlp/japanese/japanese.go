package japanese

import (
	"strings"
	"sync"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/future-architect/pinyintower/nlp"
)

const Language = nlp.TokenizerJapanese

// https://github.com/stopwords-iso/stopwords-ja
var stopWordsSrc = []string{
	"あそこ", "あっ", "あの", "あのかた", "あの人", "あり", "あります", "ある", "あれ", "い", "いう", "います", "いる", "う", "うち",
	"え", "お", "および", "おり", "おります", "か", "かつて", "から", "が", "き", "ここ", "こちら", "こと", "この", "これ", "これら",
	"さ", "さらに", "し", "しかし", "する", "ず", "せ", "せる", "そこ", "そして", "その", "その他", "その後", "それ", "それぞれ",
	"それで", "た", "ただし", "たち", "ため", "たり", "だ", "だっ", "だれ", "つ", "て", "で", "でき", "できる", "です", "では", "でも",
	"と", "という", "といった", "とき", "ところ", "として", "とともに", "とも", "と共に", "どこ", "どの", "な", "ない", "なお",
	"なかっ", "ながら", "なく", "なっ", "など", "なに", "なら", "なり", "なる", "なん", "に", "において", "における", "について",
	"にて", "によって", "により", "による", "に対して", "に対する", "に関する", "の", "ので", "のみ", "は", "ば", "へ", "ほか",
	"ほとんど", "ほど", "ます", "また", "または", "まで", "も", "もの", "ものの", "や", "よう", "より", "ら", "られ", "られる", "れ",
	"れる", "を", "ん", "何", "及び", "彼", "彼女", "我々", "特に", "私", "私達", "貴方", "貴方方",
}

var stopWords = make(map[string]bool, len(stopWordsSrc))

func init() {
	for _, stopWord := range stopWordsSrc {
		stopWords[stopWord] = true
	}
	nlp.RegisterTokenizer(Language, japaneseSplitter)
}

var (
	once            sync.Once
	kagomeTokenizer *tokenizer.Tokenizer
	kagomeErr       error
)

// japaneseSplitter segments content with kagome in search mode. Particles,
// symbols and stop words are dropped; the position increment of the next
// kept token grows by one for each of them.
func japaneseSplitter(content string) []nlp.Token {
	once.Do(func() {
		kagomeTokenizer, kagomeErr = tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	})
	if kagomeErr != nil {
		panic(kagomeErr)
	}
	var result []nlp.Token
	byteOffset := 0
	charOffset := 0
	skipped := 0
	for _, token := range kagomeTokenizer.Analyze(content, tokenizer.Search) {
		if token.Class == tokenizer.DUMMY || token.Surface == "" {
			continue
		}
		index := strings.Index(content[byteOffset:], token.Surface)
		if index < 0 {
			continue
		}
		charOffset += nlp.CharLength(content[byteOffset : byteOffset+index])
		byteOffset += index
		start := charOffset
		end := start + nlp.CharLength(token.Surface)
		byteOffset += len(token.Surface)
		charOffset = end

		features := token.Features()
		if len(features) > 0 && (features[0] == "助詞" || features[0] == "記号") {
			skipped++
			continue
		}
		if stopWords[token.Surface] {
			skipped++
			continue
		}
		word := nlp.NewWordToken(token.Surface, start, end)
		word.PositionIncrement += skipped
		skipped = 0
		result = append(result, word)
	}
	return result
}
