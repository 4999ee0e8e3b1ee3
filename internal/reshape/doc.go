// Package reshape converts wide-layout market data sheets into long-format
// tables: one row per (date, stock, value) observation.
//
// A sheet arrives as a domain.RawGrid. Running a Pipeline over it applies
// four stages in order:
//
//  1. Header detection assigns column roles. The first column is always the
//     identifier, every other column is one stock. The positional strategy
//     reads labels from the header row; the offset-corrected strategy
//     promotes the first data row to labels for sheets whose real header
//     sits below a garbled one, and validates the promoted row first.
//  2. Unpivot melts the wide table into LongRecords, column by column.
//  3. Sentinel filtering drops records whose value is empty or a
//     placeholder marker such as "-".
//  4. Numeric coercion decides whether the value column becomes numeric.
//     Text columns are reinterpreted only when the parse success ratio
//     strictly exceeds the configured threshold.
//
// Usage:
//
//	cfg := reshape.DefaultPipelineConfig()
//	cfg.ValueLabel = "Price"
//	pipe, err := reshape.NewPipeline(logger, cfg)
//	if err != nil {
//		return err
//	}
//	result, err := pipe.Run(ctx, grid)
//
// The pipeline never touches the filesystem; reading workbooks and writing
// outputs belong to the reader and exporter packages.
package reshape
