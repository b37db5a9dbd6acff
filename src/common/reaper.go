package common

import (
	"log"
	"stays/src/config"
	"stays/src/lib"
	"stays/src/utils"
)

// StartExpiryReaper schedules the periodic sweep that reclaims abandoned
// locks. The job lives on the shared gocron scheduler; boot.StopScheduler
// shuts it down with everything else.
func StartExpiryReaper() error {
	interval := config.ReaperInterval()
	id, err := lib.CreateCronJob(func() {
		count, err := utils.ReapExpired()
		if err != nil {
			log.Printf("[reaper] sweep failed: %s\n", err.Error())
			return
		}
		if count > 0 {
			log.Printf("[reaper] released %d expired reservation locks\n", count)
		}
	}, interval)
	if err != nil {
		log.Printf("[reaper] could not schedule job: %s\n", err.Error())
		return err
	}
	log.Printf("[reaper] job %s scheduled every %s\n", *id, interval)
	return nil
}
