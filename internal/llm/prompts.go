package llm

const plannerPrompt = `You are a research planner.
Input: a user query.
Produce a plan with:
1) subgoals (3-6)
2) queries (3-8) for a metasearch engine, using operators (site:, "exact phrase", filetype:pdf) and Italian/English synonyms
3) criteria: {"freshness_days": N, "need_institutional": bool, "need_diversity": bool}
Answer ONLY in JSON with keys: subgoals, queries, criteria.`

const nerPrompt = `Extract and normalize named entities from the following text.
Types: PERSON, ORG, LOC, DATE, INDICATOR.
Answer ONLY JSON: [{"entity":"...", "type":"...", "freq":N}] with no commentary.
Text:`

const summarizePrompt = `You are an analyst. You receive several sources, each with text and an id [n].
1) Summarize the evidence per source (you MUST cite [n]).
2) Propose a cross-source synthesis.
3) Extract a list of structured claims: [{"text":"...", "sources":[n,...]}]
Answer ONLY JSON with keys: per_source_summary, cross_summary, claims.`

const factcheckPrompt = `You are a fact-checker.
Evaluate the claims against the provided evidence (per source, with [n]).
For each claim:
- support: supported | partial | contested | unknown
- confidence: 0..1
- notes: at most 2 sentences
Answer ONLY JSON: [{"claim":"...", "support":"...", "confidence":0.xx, "notes":"..."}].`

const relationsPrompt = `You extract relationships between the given actors from the evidence.
Allowed types: supports, opposes, affiliates, negotiates, sanctions, investigates, trades_with, other.
Answer ONLY JSON: [{"from":"actor name", "to":"actor name", "type":"...", "confidence":0.xx}].
Only use actors from the provided list.`
