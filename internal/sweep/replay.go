package sweep

import "time"

// Replay feeds a recorded history back through a round writer, pacing
// rounds by interval. A non-positive interval replays without delay.
// Persisted rounds carry no timestamps, so pacing is uniform.
func Replay(h History, writer RoundWriter, interval time.Duration) error {
	for i, r := range h {
		if i > 0 && interval > 0 {
			time.Sleep(interval)
		}
		if err := writer.WriteRound(r); err != nil {
			return err
		}
	}
	return nil
}
