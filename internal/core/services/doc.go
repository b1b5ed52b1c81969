// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters and plug-ins).
//
// The extraction and analysis managers each drive one side of the commit
// queue. The pipeline runs both side by side and joins them.
package services
