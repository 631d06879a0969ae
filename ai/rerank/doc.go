// Package rerank implements ai.Reranker against a /v1/rerank HTTP endpoint
// as served by llama.cpp, Hugging Face TEI and Jina-compatible servers.
package rerank
