package main

import "github.com/bwayne222/youtube-video-downloader/cmd"

func main() {
	cmd.Execute()
}
