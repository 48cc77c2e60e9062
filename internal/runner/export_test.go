package runner

import "time"

// ProbeTimeout exposes the bound on the reachability request to tests.
func (rn *Runner) ProbeTimeout() time.Duration { return rn.probe.Timeout() }
