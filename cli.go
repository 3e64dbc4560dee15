package main

var cli struct {
	Verbose bool `help:"Prints debug output"`
	Probe   struct {
	} `cmd:"" help:"Print the resolved config, disc regions and per-character frame costs"`
	Encode struct {
		Text string `arg:"" help:"Path to the message text file"`
		Out  string `help:"Output frame plan path" default:"encoded.plan"`
	} `cmd:"" help:"Encode a text message into a 4-channel disc frame plan"`
	Decode struct {
		In      string `arg:"" help:"Detection stream file (frame plan format)"`
		Save    string `help:"Path for saved decode results" default:"decoded_results.txt"`
		NoTui   bool   `help:"Replay the whole stream and print the result instead of the live view"`
		Correct bool   `help:"Run the decoded message through the correction service (with --no-tui)"`
	} `cmd:"" help:"Decode a detection stream back into text"`
}
