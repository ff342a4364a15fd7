// Package beacon is the client-side capture pipeline of the beacon
// error-reporting SDK.
//
// beacon turns errors, messages, and breadcrumbs into enriched events and
// hands them to a pluggable Transport for delivery. Platform SDKs compose a
// Client with the transport of their choice; application code talks to the
// Client facade.
//
// # Core Components
//
// The package is organized around these concepts:
//
//   - Event: The outgoing record for an error or message occurrence
//   - Scope: An ordered breadcrumb trail plus context (extra/tags/user) merged into events
//   - Client: The facade that gates, prepares, filters, and sends events
//   - Transport: Destination contract for event construction and delivery
//   - Scrubber: Redacts sensitive data, packaged as BeforeSend/BeforeBreadcrumb hooks
//
// # Quick Start
//
// For delivery to a hosted ingestion endpoint:
//
//	const rawDSN = "https://key@ingest.example.com/42"
//
//	dsn, err := beacon.ParseDSN(rawDSN)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := beacon.New(
//	    ingest.New(dsn),
//	    beacon.WithDSN(rawDSN),
//	    beacon.WithRelease("1.4.2"),
//	    beacon.WithDefaultScrubbing(),
//	)
//	client.Install(ctx)
//	client.CaptureException(ctx, err, nil)
//
// For development:
//
//	client, _ := beacon.New(stderr.New(stderr.WithVerbose()),
//	    beacon.WithDSN("https://key@localhost/1"))
//	defer beacon.Recover(ctx, client)
//
// # Design Principles
//
//   - The pipeline sends nothing while the SDK is disabled (no DSN, or disabled by option)
//   - Hooks are trusted caller code: the pipeline never guards or retries them
//   - Transport failures propagate to the caller untranslated; the pipeline performs no retries
//   - Zero-dependency wire format: the Transport owns event construction and the protocol
package beacon
