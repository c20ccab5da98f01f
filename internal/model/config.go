package model

import "time"

// ToolVersion is stamped into report metadata.
const ToolVersion = "dossier 0.2.0"

// Config is the full pipeline configuration tree. Every heuristic table
// (domain authority, low-quality lists) lives here so tests can inject
// fixtures instead of relying on ambient globals.
type Config struct {
	Search      SearchConfig      `yaml:"search"`
	HTTP        HTTPConfig        `yaml:"http"`
	Dedup       DedupConfig       `yaml:"dedup"`
	Rank        RankConfig        `yaml:"rank"`
	Timeline    TimelineConfig    `yaml:"timeline"`
	Evidence    EvidenceConfig    `yaml:"evidence"`
	LLM         LLMConfig         `yaml:"llm"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Output      OutputConfig      `yaml:"output"`
}

// SearchConfig configures the SearXNG client and the ReliefWeb collector.
type SearchConfig struct {
	SearxURL      string `yaml:"searx_url"`
	Categories    string `yaml:"categories"`
	Engines       string `yaml:"engines"`
	TimeRange     string `yaml:"time_range"`
	Language      string `yaml:"language"`
	PageSize      int    `yaml:"page_size"`
	Pages         int    `yaml:"pages"`
	MaxSeeds      int    `yaml:"max_seeds"`
	MaxFetch      int    `yaml:"max_fetch"`
	ReliefWebAPI  string `yaml:"reliefweb_api"`
	ReliefWebOn   bool   `yaml:"reliefweb_enabled"`
	ReliefWebRows int    `yaml:"reliefweb_rows"`
}

// HTTPConfig configures outbound fetches.
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots"`
}

// DedupConfig configures fingerprinting and near-duplicate clustering.
type DedupConfig struct {
	SimhashBits    int `yaml:"simhash_bits"`
	NearDupHamming int `yaml:"near_dup_hamming"`
}

// RankWeights are the multi-factor score weights. Hand-tuned defaults with
// no cited derivation; kept tunable on purpose.
type RankWeights struct {
	Freshness    float64 `yaml:"freshness"`
	Authority    float64 `yaml:"authority"`
	Completeness float64 `yaml:"completeness"`
	Coherence    float64 `yaml:"coherence"`
}

// RankConfig configures the document scorer.
type RankConfig struct {
	Weights            RankWeights        `yaml:"weights"`
	HalfLifeDays       float64            `yaml:"half_life_days"`
	DefaultAuthority   float64            `yaml:"default_authority"`
	CompletenessChars  int                `yaml:"completeness_chars"`
	DomainScores       map[string]float64 `yaml:"domain_scores"`
	LowQualityDomains  []string           `yaml:"low_quality_domains"`
	LowQualityKeywords []string           `yaml:"low_quality_keywords"`
	DetailHints        []string           `yaml:"detail_hints"`
	LowQualityPenalty  float64            `yaml:"low_quality_penalty"`
	DetailBonus        float64            `yaml:"detail_bonus"`
	LivePenalty        float64            `yaml:"live_penalty"`
}

// TimelineConfig configures dated-event extraction.
type TimelineConfig struct {
	MaxEvents    int `yaml:"max_events"`
	BodyDocs     int `yaml:"body_docs"`
	BodyChars    int `yaml:"body_chars"`
	MinSnippet   int `yaml:"min_snippet"`
	EventsPerDay int `yaml:"events_per_day"`
}

// EvidenceConfig configures the corroboration filter.
type EvidenceConfig struct {
	MinSupportDomains int     `yaml:"min_support_domains"`
	MinConfidence     float64 `yaml:"min_confidence"`
}

// LLMConfig configures the OpenAI-compatible client shared by all
// LLM-backed stages.
type LLMConfig struct {
	Enabled     bool    `yaml:"enabled"`
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	TopK        int     `yaml:"top_k"`
	CharBudget  int     `yaml:"char_budget"`
}

// CacheConfig configures the layered fetch cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ConcurrencyConfig bounds the fetch worker pool.
type ConcurrencyConfig struct {
	FetchWorkers int `yaml:"fetch_workers"`
}

// RateLimitConfig bounds per-domain request rates.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// OutputConfig configures report rendering.
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	LogDir  string `yaml:"log_dir"`
	Verbose bool   `yaml:"verbose"`
	Analyst string `yaml:"analyst"`
}

// DefaultConfig returns the built-in defaults. The heuristic tables carry
// the hand-curated seed values; operators extend them via the config file.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			SearxURL:      "http://localhost:8880/search",
			Categories:    "news,science,web",
			Engines:       "google,bing,duckduckgo",
			TimeRange:     "month",
			Language:      "it-IT",
			PageSize:      15,
			Pages:         2,
			MaxSeeds:      80,
			MaxFetch:      40,
			ReliefWebAPI:  "https://api.reliefweb.int/v1/reports",
			ReliefWebOn:   false,
			ReliefWebRows: 20,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "dossier/0.2 (+https://github.com/vbascerano/dossier)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Dedup: DedupConfig{
			SimhashBits:    64,
			NearDupHamming: 6,
		},
		Rank: RankConfig{
			Weights: RankWeights{
				Freshness:    0.35,
				Authority:    0.35,
				Completeness: 0.20,
				Coherence:    0.10,
			},
			HalfLifeDays:      60,
			DefaultAuthority:  0.30,
			CompletenessChars: 8000,
			DomainScores: map[string]float64{
				"ansa.it":         0.9,
				"repubblica.it":   0.75,
				"ilsole24ore.com": 0.95,
				"reuters.com":     1.0,
				"bbc.com":         0.9,
				"apnews.com":      0.9,
				"who.int":         1.0,
				"europa.eu":       1.0,
			},
			LowQualityDomains:  []string{"medium.com", "substack.com"},
			LowQualityKeywords: []string{"opinion", "blog", "press-release-index", "archive"},
			DetailHints: []string{
				"/press-releases/", "/fact-sheet", "/readout", "/statement",
				"whitehouse.gov", "ustr.gov", "un.org", "oecd.org",
			},
			LowQualityPenalty: -0.40,
			DetailBonus:       0.15,
			LivePenalty:       -0.15,
		},
		Timeline: TimelineConfig{
			MaxEvents:    12,
			BodyDocs:     30,
			BodyChars:    6000,
			MinSnippet:   40,
			EventsPerDay: 2,
		},
		Evidence: EvidenceConfig{
			MinSupportDomains: 2,
			MinConfidence:     0.55,
		},
		LLM: LLMConfig{
			Enabled:     false,
			BaseURL:     "http://localhost:11434/v1",
			Model:       "gpt-oss:20b",
			Temperature: 0.2,
			TimeoutSecs: 60,
			TopK:        8,
			CharBudget:  12000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".dossier-cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			FetchWorkers: 8,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 1.5,
			Burst:             3,
		},
		Output: OutputConfig{
			Dir:    "./out",
			LogDir: "logs",
		},
	}
}
