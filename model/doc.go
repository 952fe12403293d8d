// Package model defines the normalized request/response contract between the
// dispatch engine and LLM providers, plus a scripted mock for tests. Provider
// adapters live in the openai and anthropic subpackages.
package model
