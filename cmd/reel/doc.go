// Command reel builds a video from an ordered set of still images plus one
// audio track.
//
// Subcommands:
//
//	create        mux the configured (or --image/--audio) inputs into a new video
//	codecs        list the codecs the configured ffmpeg can encode
//	history       show recent jobs from the SQLite job history
//	serve         run the interactive loop and HTTP control API
//	logs          print or follow reel.log, optionally for one job
//	status        preflight checks, server lock, and job totals
//	test-notify   send a test ntfy notification
//	config        init or validate the TOML configuration
//
// A .env file in the working directory (or --env-file) is loaded before the
// configuration so REEL_FFMPEG and REEL_NTFY_TOPIC can be set there.
package main
