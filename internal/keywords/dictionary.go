// Package keywords extracts weighted, deduplicated keyword sets from resume
// and job description text.
package keywords

// techTerms is the curated technical-term dictionary scanned with word
// boundaries. Multi-word phrases and tokens with punctuation ("node.js",
// "c++") are matched verbatim against lowercased input.
var techTerms = []string{
	// Languages
	"python", "javascript", "typescript", "java", "golang", "go", "rust",
	"c++", "c#", "ruby", "php", "scala", "kotlin", "swift", "sql",
	// Frontend
	"react", "angular", "vue", "vue.js", "node.js", "next.js", "html", "css",
	"sass", "less", "bootstrap", "tailwind", "graphql",
	// Data stores
	"postgresql", "postgres", "mysql", "mongodb", "redis", "elasticsearch",
	"cassandra", "dynamodb", "sqlite", "kafka", "rabbitmq",
	// Cloud & infra
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "ansible",
	"jenkins", "ci/cd", "linux", "nginx", "serverless", "lambda",
	"microservices", "grpc", "rest api", "rest",
	// Data & ML
	"machine learning", "deep learning", "nlp", "data analysis",
	"data science", "pandas", "numpy", "tensorflow", "pytorch", "spark",
	"airflow", "etl",
	// Tooling & practice
	"git", "github", "gitlab", "agile", "scrum", "tdd", "oauth",
	"unit testing", "observability", "prometheus", "grafana",
	// Soft/role
	"project management", "leadership", "mentoring", "communication",
	"problem solving", "stakeholder management",
}

// stopWords filters common English and job-posting boilerplate from the
// heuristic extractors. Dictionary terms are never filtered.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "the": true, "for": true, "with": true,
	"you": true, "are": true, "have": true, "will": true, "this": true,
	"that": true, "from": true, "our": true, "your": true, "their": true,
	"they": true, "work": true, "team": true, "role": true, "job": true,
	"join": true, "about": true, "which": true, "what": true, "who": true,
	"how": true, "can": true, "not": true, "but": true, "all": true,
	"also": true, "more": true, "than": true, "into": true, "has": true,
	"its": true, "was": true, "were": true, "been": true, "each": true,
	"new": true, "use": true, "using": true, "used": true, "well": true,
	"high": true, "good": true, "able": true, "get": true, "set": true,
	"such": true, "looking": true, "seeking": true, "ideal": true,
	"candidate": true, "candidates": true, "experience": true, "years": true,
	"year": true, "strong": true, "required": true, "requirements": true,
	"preferred": true, "plus": true, "must": true, "should": true,
	"ability": true, "skills": true, "knowledge": true, "including": true,
	"etc": true, "e.g": true, "engineer": true, "engineers": true,
	"developer": true, "developers": true, "company": true, "position": true,
	"opportunity": true, "benefits": true, "salary": true, "remote": true,
	"hybrid": true, "onsite": true, "responsibilities": true, "hiring": true,
	"best": true, "brightest": true, "or": true,
	"of": true, "in": true, "on": true, "at": true, "to": true, "as": true,
	"we": true, "is": true, "be": true, "by": true, "it": true,
}

// listHeaderWords mark lines whose remainder (or following items) should be
// treated as a comma/bullet-separated list of candidate keywords.
var listHeaderWords = []string{
	"skills", "requirements", "qualifications", "technologies",
	"tech stack", "stack", "tools", "competencies", "nice to have",
	"must have",
}
