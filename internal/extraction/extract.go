package extraction

import (
	"regexp"
	"sort"
	"strings"
)

// skillPatterns maps canonical tokens to the surface forms that count as a
// mention in listing text. Patterns are matched case-insensitively on word
// boundaries that tolerate symbol-bearing names (c++, c#, t-sql).
var skillPatterns = map[string][]string{
	"python":           {"python"},
	"r":                {"r"},
	"sql":              {"sql", "postgresql", "mysql", "t-sql", "pl/sql"},
	"nosql":            {"nosql", "mongodb", "cassandra", "dynamodb"},
	"excel":            {"excel", "ms excel", "microsoft excel"},
	"tableau":          {"tableau"},
	"powerbi":          {"power bi", "powerbi"},
	"sas":              {"sas"},
	"spss":             {"spss"},
	"matlab":           {"matlab"},
	"scala":            {"scala"},
	"java":             {"java"},
	"c++":              {"c++"},
	"c#":               {"c#"},
	"go":               {"golang", "go lang"},
	"javascript":       {"javascript", "js"},
	"spark":            {"spark", "pyspark"},
	"hadoop":           {"hadoop", "hdfs", "mapreduce"},
	"hive":             {"hive"},
	"kafka":            {"kafka"},
	"airflow":          {"airflow"},
	"aws":              {"aws", "amazon web services", "redshift", "sagemaker"},
	"gcp":              {"gcp", "google cloud", "bigquery"},
	"azure":            {"azure"},
	"docker":           {"docker"},
	"kubernetes":       {"kubernetes", "k8s"},
	"git":              {"git", "github", "gitlab"},
	"linux":            {"linux", "unix"},
	"numpy":            {"numpy"},
	"pandas":           {"pandas"},
	"scikit-learn":     {"scikit-learn", "scikit learn", "sklearn"},
	"tensorflow":       {"tensorflow"},
	"pytorch":          {"pytorch", "torch"},
	"keras":            {"keras"},
	"machine-learning": {"machine learning", "ml models", "ml model"},
	"deep-learning":    {"deep learning", "neural networks", "neural network"},
	"nlp":              {"nlp", "natural language processing"},
	"statistics":       {"statistics", "statistical modelling", "statistical modeling", "hypothesis testing"},
	"visualization":    {"data visualisation", "data visualization", "data viz", "matplotlib", "seaborn", "ggplot"},
	"etl":              {"etl", "data pipelines", "data pipeline"},
	"agile":            {"agile", "scrum"},
}

type matcher struct {
	token string
	re    *regexp.Regexp
}

var matchers = compileMatchers()

func compileMatchers() []matcher {
	// Symbols that may legitimately appear inside a skill name (c++, c#,
	// t-sql) must not be treated as boundaries, or "c++" would also match
	// inside "c++11". Periods stay boundaries so sentence-final mentions
	// still match.
	const boundary = `[^a-z0-9+#\-]`

	tokens := make([]string, 0, len(skillPatterns))
	for token := range skillPatterns {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	compiled := make([]matcher, 0, len(tokens))
	for _, token := range tokens {
		alternatives := make([]string, 0, len(skillPatterns[token]))
		for _, pattern := range skillPatterns[token] {
			alternatives = append(alternatives, regexp.QuoteMeta(pattern))
		}
		expr := `(?i)(?:^|` + boundary + `)(?:` + strings.Join(alternatives, "|") + `)(?:` + boundary + `|$)`
		compiled = append(compiled, matcher{token: token, re: regexp.MustCompile(expr)})
	}
	return compiled
}

// ExtractTokens scans listing text and returns the set of canonical skill
// tokens mentioned, sorted. It is a pure function of its input.
func ExtractTokens(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var found []string
	for _, m := range matchers {
		if m.re.MatchString(text) {
			found = append(found, m.token)
		}
	}
	return found
}

// KnownTokens returns the canonical tokens the extractor can produce, sorted.
func KnownTokens() []string {
	tokens := make([]string, 0, len(skillPatterns))
	for token := range skillPatterns {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}
