package normalizer

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
)

var defaultStopWords = []string{
	// Arabic
	"ال", "الـ", "هو", "هي", "هم", "هن", "أنت", "أنتم", "أنتن",
	"أنا", "نحن", "هذا", "هذه", "ذلك", "تلك", "هؤلاء", "أولئك",
	"في", "من", "إلى", "على", "عن", "مع", "ب", "ل", "ك",
	"و", "أو", "لكن", "ثم", "أم", "إما", "لا",
	"كان", "يكون", "ليس", "قد", "لم", "لن",
	"ما", "ماذا", "متى", "أين", "كيف", "لماذا", "هل",
	"كل", "بعض", "غير", "عند", "حتى", "بين", "أن", "إن",
	"التي", "الذي", "اللذان", "اللتان", "الذين", "اللاتي", "اللواتي",

	// English
	"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
	"in", "is", "it", "of", "on", "or", "that", "the", "this", "to",
	"was", "were", "will", "with",
}

// LoadStopWords reads one stop word per line. Blank lines and lines starting
// with # are ignored.
func LoadStopWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open stop words file")
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read stop words file")
	}

	return words, nil
}
