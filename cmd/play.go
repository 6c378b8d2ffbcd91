package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/audiopipe/spdiftx/audio"
	"github.com/audiopipe/spdiftx/audio/sinks/monitor"
	"github.com/audiopipe/spdiftx/audio/sinks/wavWriter"
	"github.com/audiopipe/spdiftx/audio/sources/tone"
	"github.com/audiopipe/spdiftx/audio/sources/wavReader"
	"github.com/audiopipe/spdiftx/dma"
	"github.com/audiopipe/spdiftx/spdif"
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play an audio source through the simulated S/PDIF transmitter",
	Long: `Play an audio source through the simulated S/PDIF transmitter.

The source (a wav file or a generated sine tone) supplies block pairs to
the transmit core at the hardware cadence of the simulated DMA engine.
The transmitted sub-frame stream is looped back, decoded and sent to the
enabled sinks (local audio device and/or wav file).`,
	Run: func(cmd *cobra.Command, args []string) {
		play()
	},
}

func init() {
	RootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("source", "S", "tone", "audio source (tone, wav)")
	playCmd.Flags().String("wav_file", "", "wav file to play (source 'wav')")
	playCmd.Flags().Float64("frequency", 440, "tone frequency in Hz (source 'tone')")
	playCmd.Flags().Float64("amplitude", 0.5, "tone amplitude (0..1, source 'tone')")
	playCmd.Flags().Float64P("samplerate", "s", 44100, "sample rate of the transmit clock")
	playCmd.Flags().DurationP("duration", "d", 0, "playback duration (0: until the wav file ends)")
	playCmd.Flags().StringP("output_device_name", "o", "default", "output device for the monitor")
	playCmd.Flags().Duration("output_device_latency", time.Millisecond*10, "monitor output latency")
	playCmd.Flags().Bool("monitor", true, "play the transmitted stream on the local output device")
	playCmd.Flags().String("record", "", "record the transmitted stream into this wav file")

	viper.BindPFlag("play.source", playCmd.Flags().Lookup("source"))
	viper.BindPFlag("play.wav_file", playCmd.Flags().Lookup("wav_file"))
	viper.BindPFlag("play.frequency", playCmd.Flags().Lookup("frequency"))
	viper.BindPFlag("play.amplitude", playCmd.Flags().Lookup("amplitude"))
	viper.BindPFlag("play.samplerate", playCmd.Flags().Lookup("samplerate"))
	viper.BindPFlag("play.duration", playCmd.Flags().Lookup("duration"))
	viper.BindPFlag("output_device.device_name", playCmd.Flags().Lookup("output_device_name"))
	viper.BindPFlag("output_device.latency", playCmd.Flags().Lookup("output_device_latency"))
	viper.BindPFlag("play.monitor", playCmd.Flags().Lookup("monitor"))
	viper.BindPFlag("play.record", playCmd.Flags().Lookup("record"))
}

func play() {

	samplerate := viper.GetFloat64("play.samplerate")
	duration := viper.GetDuration("play.duration")

	// the pool backs both pending queues plus the blocks in flight in
	// the producer
	pool := audio.NewBlockPool(16)

	var producer audio.Producer
	var wavSource *wavReader.WavReader

	switch viper.GetString("play.source") {
	case "tone":
		t, err := tone.NewTone(pool,
			tone.Samplerate(samplerate),
			tone.Frequency(float32(viper.GetFloat64("play.frequency"))),
			tone.Amplitude(float32(viper.GetFloat64("play.amplitude"))),
		)
		if err != nil {
			log.Fatal(err)
		}
		producer = t
		if duration == 0 {
			duration = time.Second * 5
		}
	case "wav":
		path := viper.GetString("play.wav_file")
		if len(path) == 0 {
			log.Fatal("no wav file specified (--wav_file)")
		}
		w, err := wavReader.NewWavReader(path, pool)
		if err != nil {
			log.Fatal(err)
		}
		// the transmit clock follows the file
		samplerate = w.Samplerate()
		wavSource = w
		producer = w
	default:
		log.Fatalf("unknown source %s", viper.GetString("play.source"))
	}

	router, err := audio.NewDefaultRouter()
	if err != nil {
		log.Fatal(err)
	}

	if viper.GetBool("play.monitor") {
		if err := portaudio.Initialize(); err != nil {
			log.Fatal(err)
		}
		defer portaudio.Terminate()

		mon, err := monitor.NewMonitor(
			monitor.DeviceName(viper.GetString("output_device.device_name")),
			monitor.Samplerate(samplerate),
			monitor.Latency(viper.GetDuration("output_device.latency")),
		)
		if err != nil {
			log.Fatal(err)
		}
		router.AddSink("monitor", mon, false)
		if err := router.EnableSink("monitor", true); err != nil {
			log.Fatal(err)
		}
		defer mon.Close()
	}

	if record := viper.GetString("play.record"); len(record) > 0 {
		rec, err := wavWriter.NewWavWriter(record,
			wavWriter.Samplerate(samplerate),
			wavWriter.Channels(2),
		)
		if err != nil {
			log.Fatal(err)
		}
		router.AddSink("record", rec, false)
		if err := router.EnableSink("record", true); err != nil {
			log.Fatal(err)
		}
		defer rec.Close()
	}

	loopback := spdif.NewLoopback(0)
	engine := dma.NewSim()

	var tx *spdif.Tx

	// per cycle bookkeeping: forward the looped back stream to the
	// sinks and let the producer contribute the next block pair
	onCycle := func() {
		for _, pair := range loopback.DrainBlocks() {
			msg := audio.Msg{
				Data:       audio.StereoFloat32(pair[0][:], pair[1][:]),
				Samplerate: samplerate,
				Channels:   2,
				Frames:     audio.BlockSamples,
			}
			for _, sErr := range router.Write(msg) {
				log.Println(sErr.Error)
			}
		}
		tx.Update()
	}

	tx, err = spdif.NewTx(engine, loopback,
		spdif.Producer(producer),
		spdif.OnCycle(onCycle),
	)
	if err != nil {
		log.Fatal(err)
	}

	if err := tx.Start(); err != nil {
		log.Fatal(err)
	}

	if err := engine.Start(samplerate); err != nil {
		log.Fatal(err)
	}

	log.Printf("transmitting at %.0f Hz\n", samplerate)

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, os.Interrupt, syscall.SIGTERM)

	var timeout <-chan time.Time
	if duration > 0 {
		timeout = time.After(duration)
	}

	poll := time.NewTicker(time.Millisecond * 100)
	defer poll.Stop()

running:
	for {
		select {
		case sig := <-osSignals:
			fmt.Println("received signal:", sig)
			break running
		case <-timeout:
			break running
		case <-poll.C:
			// once the file is exhausted, let the pending queues drain
			if wavSource != nil && wavSource.Exhausted() && pool.Outstanding() == 0 {
				break running
			}
		}
	}

	engine.Stop()
	if err := tx.Stop(); err != nil {
		log.Println(err)
	}
	router.Flush()

	stats := tx.Stats()
	log.Printf("cycles: %d (silent: %d), pairs accepted: %d, dropped: %d\n",
		stats.Cycles, stats.SilentCycles, stats.PairsAccepted, stats.PairsEvicted)
}
