// Package queue hands netlist setups to simulation backends through Redis.
//
// A submitter pushes a Job onto a backend's queue and waits on the job's
// results channel; a backend worker pops the job, decodes its netlist setup,
// runs the simulator and publishes a Result.
//
// # Redis Key Schema
//
//   - sim:<backend>:queue - List of jobs (LPUSH/BRPOP)
//   - sim:<backend>:meta - Hash of backend metadata
//   - sim:<backend>:health - String with 30s TTL for heartbeat
//   - sim:backends - Set of registered backend names
//   - results:<jobID> - Pub/Sub channel for job results
//
// # Usage
//
// Submitting a setup:
//
//	client, err := queue.NewRedisClient(queue.RedisOptions{URL: "redis://localhost:6379"})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	job, err := queue.NewJob(ctx, "spectre", "inverter_tran", info)
//	if err != nil {
//		return err
//	}
//	results, err := client.Subscribe(ctx, job.JobID)
//	if err != nil {
//		return err
//	}
//	if err := client.Push(ctx, job); err != nil {
//		return err
//	}
//	res := <-results
//
// Serving a backend:
//
//	_ = client.RegisterBackend(ctx, queue.BackendMeta{Name: "spectre", Version: "1.0.0"})
//	for {
//		job, err := client.Pop(ctx, "spectre")
//		if err != nil {
//			return err
//		}
//		info, err := job.NetlistInfo()
//		// run the simulation, then
//		_ = client.Publish(ctx, queue.Result{JobID: job.JobID, Status: queue.StatusCompleted})
//	}
//
// Subscribe before Push: pub/sub does not buffer, so a result published
// before the subscription exists is lost.
package queue
