package search

const expansionPromptTemplate = `Rewrite the search query below as %d alternative search queries that would find the same information.

Output ONLY the queries, one per line. Do not number them, do not add quotes, and do not include any preamble,
explanation, or the original query.

Rules:
- Use synonyms and closely related terms.
- Keep each query short, like something typed into a search box.
- Do not change what the user is looking for.

Query: %s`

const relevancePromptTemplate = `Rate how relevant the document below is to the search query.

Output ONLY a single number between 0 and 1, where 0 means unrelated and 1 means it answers the query directly.
Do not include any words, units, or explanation.

Query: %s

Document:
%s`

const (
	expansionSystemPrompt = "You expand search queries for a personal knowledge base."
	relevanceSystemPrompt = "You judge search result relevance and answer with a single number."
)
