// Package worker imports many translation bundles in parallel.
//
// Each job is an independent import call with its own lookup indexes, so
// jobs share nothing but the codec's configuration. Results come back in
// submission order.
//
// Example usage:
//
//	codec := rf2io.NewTranslationCodec()
//	importer := worker.NewBatchImporter(codec, 4)
//
//	jobs := []worker.Job{
//	    worker.FileJob("es.zip", &model.Translation{Language: "es", Module: "450829007"}),
//	    worker.FileJob("fr.zip", &model.Translation{Language: "fr", Module: "11000241103"}),
//	}
//
//	result := importer.ImportBatch(ctx, jobs)
//	if err := result.Err(); err != nil {
//	    // Handle failed jobs
//	}
//	for _, r := range result.Results {
//	    // Process r.Concepts
//	}
package worker
