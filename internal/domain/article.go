package domain

// NoiseLevel buckets how aggressively an article's summary gets reduced.
type NoiseLevel string

const (
	// LevelNoise marks promotional content pushed as key points only.
	LevelNoise NoiseLevel = "noise"
	// LevelPR marks substantive but self-promotional content.
	LevelPR NoiseLevel = "pr"
	// LevelLight marks ordinary content receiving a full summary.
	LevelLight NoiseLevel = "light"
)

// UnknownAuthor is the sentinel for feed items that carry no author.
const UnknownAuthor = "Unknown"

// Article is the unit flowing through the pipeline. The feed source
// creates it, the classifier and summary dispatcher enrich it in place,
// and the digest formatter consumes it; only the seen-store key outlives
// a run.
type Article struct {
	ID         string
	Title      string
	Content    string
	Link       string
	Author     string
	Categories []string
	IsNoise    bool
	NoiseType  string
	NoiseLevel NoiseLevel
	Summary    string
}

// Reduced reports whether the article got the compact treatment.
func (a Article) Reduced() bool {
	return a.NoiseLevel == LevelNoise || a.NoiseLevel == LevelPR
}

// Verdict is the classifier's output for one article.
type Verdict struct {
	Categories []string
	Confidence float64
	IsNoise    bool
	NoiseType  string
	NoiseLevel NoiseLevel
}

// Apply copies the verdict onto the article.
func (v Verdict) Apply(a *Article) {
	a.Categories = v.Categories
	a.IsNoise = v.IsNoise
	a.NoiseType = v.NoiseType
	a.NoiseLevel = v.NoiseLevel
}

// SummaryResult carries the dispatcher's output for one article.
type SummaryResult struct {
	Summary    string
	Categories []string
}

// Message is a rendered digest ready for the delivery sink.
type Message struct {
	Title string
	Body  string
}
