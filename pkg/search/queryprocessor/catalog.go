package queryprocessor

import "sort"

// Catalog holds the curated term lists the processor matches against.
// It is built once at startup and never mutated afterwards, so it can be
// shared across requests without synchronization.
type Catalog struct {
	Stopwords              map[string]struct{}
	DomainPhrases          []string // sorted longest-first for greedy matching
	DomainContext          map[string][]string
	DocumentTypes          []DocumentTypeSignal
	ConversationalPrefixes []string
	TopicPrepositions      []string
}

// DocumentTypeSignal maps trigger keywords to a canonical document type.
type DocumentTypeSignal struct {
	Type     string
	Keywords []string
	Weight   float64
}

var defaultStopwords = []string{
	// articles, pronouns, conjunctions
	"the", "and", "for", "are", "was", "were", "with", "that", "this",
	"these", "those", "from", "into", "onto", "your", "their", "them",
	"they", "you", "our", "any", "all", "some", "can", "could", "would",
	"should", "will", "shall", "have", "has", "had", "what", "which",
	"where", "when", "who", "whom", "how", "why", "not", "but", "its",
	"his", "her", "him", "she", "per", "about", "related", "regarding",
	// generic verbs users type in searches
	"show", "give", "find", "get", "want", "need", "looking", "search",
	"see", "list", "tell", "make", "please",
	// generic document-domain filler
	"file", "files", "document", "documents", "doc", "docs", "ppt",
	"pptx", "pdf", "slide", "slides", "deck", "decks", "presentation",
	"presentations", "report", "reports", "spreadsheet", "spreadsheets",
	"excel", "csv", "sheet", "sheets", "image", "images", "picture",
	"video", "videos", "stuff", "thing", "things", "item", "items",
}

var defaultDomainPhrases = []string{
	"machine learning", "deep learning", "artificial intelligence",
	"natural language processing", "computer vision", "neural network",
	"data science", "data analytics", "big data", "data warehouse",
	"cloud computing", "cloud kitchen", "edge computing",
	"internet of things", "block chain", "supply chain",
	"electronic health record", "health care", "public health",
	"mental health", "primary care", "clinical trial",
	"medical device", "patient care", "health insurance",
	"digital marketing", "social media", "market research",
	"business plan", "business model", "case study", "value proposition",
	"due diligence", "venture capital", "private equity",
	"annual report", "quarterly report", "balance sheet", "cash flow",
	"income statement", "profit margin", "cost analysis",
	"human resources", "performance review", "employee engagement",
	"project management", "product management", "product roadmap",
	"user experience", "user interface", "customer experience",
	"customer service", "customer acquisition", "churn rate",
	"real estate", "interior design", "urban planning",
	"climate change", "renewable energy", "solar power", "wind energy",
	"electric vehicle", "carbon footprint",
	"textile industry", "fashion industry", "food industry",
	"manufacturing process", "quality assurance", "quality control",
	"higher education", "online learning", "distance learning",
	"learning management system", "curriculum design",
	"information technology", "software development", "software engineering",
	"web development", "mobile application", "open source",
	"operating system", "version control", "continuous integration",
	"cyber security", "information security", "risk management",
	"healthcare",
}

// DomainContext maps a recognized key term to a few representative terms
// from its domain, appended to the enhanced query as semantic boosters.
var defaultDomainContext = map[string][]string{
	"education":  {"learning", "teaching", "curriculum"},
	"learning":   {"education", "training", "course"},
	"technology": {"software", "digital", "innovation"},
	"software":   {"technology", "application", "development"},
	"business":   {"strategy", "market", "revenue"},
	"marketing":  {"campaign", "brand", "audience"},
	"finance":    {"budget", "revenue", "investment"},
	"healthcare": {"medical", "patient", "clinical"},
	"health":     {"medical", "wellness", "care"},
	"medical":    {"healthcare", "clinical", "patient"},
	"design":     {"creative", "visual", "layout"},
	"research":   {"study", "analysis", "findings"},
	"energy":     {"power", "renewable", "sustainability"},
	"industry":   {"manufacturing", "sector", "production"},
}

var defaultDocumentTypes = []DocumentTypeSignal{
	{Type: "presentation", Keywords: []string{"deck", "decks", "slide", "slides", "presentation", "presentations", "ppt", "pptx", "keynote"}, Weight: 1.0},
	{Type: "document", Keywords: []string{"document", "documents", "doc", "docs", "report", "reports", "pdf", "paper", "papers"}, Weight: 0.9},
	{Type: "spreadsheet", Keywords: []string{"spreadsheet", "spreadsheets", "excel", "xlsx", "csv", "sheet", "sheets", "workbook"}, Weight: 0.9},
	{Type: "image", Keywords: []string{"image", "images", "photo", "photos", "picture", "pictures", "png", "jpeg"}, Weight: 0.8},
	{Type: "video", Keywords: []string{"video", "videos", "recording", "recordings", "mp4"}, Weight: 0.8},
}

var defaultConversationalPrefixes = []string{
	"can you give me", "can you show me", "can you find me", "can you find",
	"could you give me", "could you show me", "could you find",
	"i am looking for", "i'm looking for", "im looking for",
	"i want to see", "i would like to see", "i'd like to see",
	"please give me", "please show me", "please find",
	"give me", "show me", "find me", "get me", "fetch me",
	"can you", "could you", "would you",
	"i want", "i need", "looking for", "search for", "find", "show",
}

var defaultTopicPrepositions = []string{
	"about", "regarding", "related to", "on the topic of", "concerning", "for",
}

// DefaultCatalog builds the curated catalog with reference term lists.
func DefaultCatalog() *Catalog {
	stop := make(map[string]struct{}, len(defaultStopwords))
	for _, w := range defaultStopwords {
		stop[w] = struct{}{}
	}

	phrases := make([]string, len(defaultDomainPhrases))
	copy(phrases, defaultDomainPhrases)
	// Longest first so "electronic health record" wins over "health record".
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})

	return &Catalog{
		Stopwords:              stop,
		DomainPhrases:          phrases,
		DomainContext:          defaultDomainContext,
		DocumentTypes:          defaultDocumentTypes,
		ConversationalPrefixes: defaultConversationalPrefixes,
		TopicPrepositions:      defaultTopicPrepositions,
	}
}
