// Package openai implements the ai.RelevanceScorer interface using
// OpenAI-compatible chat completion APIs. It works with any service
// speaking that protocol, including local Ollama, LocalAI, and vLLM
// deployments.
package openai
