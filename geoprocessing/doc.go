// Package geoprocessing orchestrates asynchronous jobs against a remote
// geoanalytics tool service.
//
// Every tool call moves through the same three stages:
//
//  1. Parameter normalization: the call's arguments are validated against
//     the tool's descriptor, coerced to their wire forms, and stripped of
//     unset values. Spatial context (extent, coordinate systems, data
//     store) is injected from the call or from the ambient workspace.
//  2. Output provisioning: an empty destination feature service is created
//     up front and its identity embedded in the request, so the server
//     writes into a client-owned destination.
//  3. Execution: the job is submitted, polled with bounded exponential
//     backoff until terminal, and its declared outputs are resolved into
//     typed handles. On success the destination item records the job's
//     provenance; on any failure the destination is deleted before the
//     error reaches the caller, so failed calls never leak services.
//
// Blocking callers use Runner.Run; non-blocking callers use Runner.Launch
// and receive a Job future with Status and Result. The upload-by-parts
// path (Uploader) follows the same rollback discipline for large file
// ingestion.
package geoprocessing
