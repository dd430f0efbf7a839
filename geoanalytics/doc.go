// Package geoanalytics is the typed facade over the geoprocessing
// orchestrator: one function per remote tool, each backed by a static
// catalog descriptor that maps client argument names to the server's wire
// parameters and declares the tool's outputs.
//
// Calls run against the ambient workspace unless WithWorkspace pins one.
// The default call blocks until the job finishes and returns the
// destination service handle; ReturnTuple adds the full decoded result
// bundle, and NonBlocking returns a Job future instead.
//
//	out, err := geoanalytics.FindPointClusters(ctx, geoanalytics.FindPointClustersParams{
//		InputLayer:         layer,
//		ClusterMethod:      "DBSCAN",
//		SearchDistance:     5,
//		SearchDistanceUnit: "Meters",
//		MinFeaturesCluster: 10,
//	})
package geoanalytics
