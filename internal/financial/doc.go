// Package financial turns a seller's order-level export into a flat summary of
// business metrics.
//
// # Architecture
//
// The pipeline runs in one direction and keeps no state between calls:
//
//	File → Loader → Table → Normalize → []Order → Derive → Aggregate → Summary
//
// The Loader is the only stage that can fail. Every later stage recovers from
// bad data locally: unparseable money becomes 0, unparseable dates become nil
// and ratios with a zero denominator resolve to 0.
//
// # Usage
//
//	s := financial.NewSummarizer(logger, financial.SummarizerConfig{})
//	res, err := s.SummarizeFile(ctx, "orders.csv")
//	if err != nil {
//	    return err
//	}
//	payload, err := json.Marshal(res.Summary)
//
// Monetary values are Indian Rupees; the currency is a convention of the
// summary keys and is never inferred from the data.
package financial
