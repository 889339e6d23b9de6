package services

import "github.com/vibin/news-relay/internal/core/domain"

// Assemble prepends header (when non-empty) to items and keeps the first
// domain.MaxBatchSegments segments. The header counts against the cap.
// Callers must not pass an empty item list; use AssembleFallback instead.
func Assemble(header string, items []string) domain.ResponseBatch {
	batch := make(domain.ResponseBatch, 0, domain.MaxBatchSegments)
	if header != "" {
		batch = append(batch, header)
	}
	for _, item := range items {
		if len(batch) == domain.MaxBatchSegments {
			break
		}
		batch = append(batch, item)
	}
	return batch
}

// AssembleFallback returns a batch holding only message
func AssembleFallback(message string) domain.ResponseBatch {
	return domain.ResponseBatch{message}
}

// assembleFindings turns a source outcome into a batch that is never empty
func assembleFindings(findings domain.Findings, err error, msgs domain.Messages) domain.ResponseBatch {
	if err != nil {
		return AssembleFallback(msgs.Failure)
	}
	if findings.Empty() {
		return AssembleFallback(msgs.Empty)
	}
	return Assemble(findings.Header, findings.Segments)
}
