package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/itohio/avrcore/pkg/config"
	"github.com/itohio/avrcore/pkg/tick"
	"github.com/itohio/avrcore/pkg/uart"
)

// bridge is a console serial bridge: stdin lines go out through the
// channel's transmit buffer, received bytes come back to stdout, and a
// scheduler task paces a periodic stats report. With -mock the wire is a
// loopback, which makes the whole path observable without hardware.
func main() {
	var (
		portFlag   = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyUSB0)")
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		baudFlag   = flag.Int("baud", 0, "Baud rate override")
		mockFlag   = flag.Bool("mock", false, "Use a loopback mock port instead of a serial device")
		listFlag   = flag.Bool("list", false, "List available serial ports and exit")
	)
	flag.Parse()

	if *listFlag {
		ports, err := uart.Ports()
		if err != nil {
			log.Fatalf("Failed to list serial ports: %v", err)
		}
		if len(ports) == 0 {
			fmt.Println("No serial ports found")
			return
		}
		for _, p := range ports {
			fmt.Println(p.Name)
		}
		return
	}

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override serial settings if provided via command line
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *baudFlag > 0 {
		cfg.Serial.BaudRate = *baudFlag
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	params := tick.ClassicTiming()
	if cfg.Scheduler.Timing == config.TimingExact {
		params = tick.ExactTiming(cfg.Scheduler.CPUHz)
	}

	// A host ticker plays the hardware timer; the simulated timer keeps
	// the scheduler's register discipline (reload, clock select, gating).
	timer := tick.NewMockTimer()
	sched := tick.New(timer, params, len(cfg.Scheduler.TaskPeriods))
	timer.OverflowHandler = sched.HandleOverflow
	sched.Init()
	for i, p := range cfg.Scheduler.TaskPeriods {
		sched.SetPeriod(i, p)
	}
	// Slot 0 paces the stats report; the bridge setting wins when present.
	if cfg.Bridge.StatsInterval > 0 {
		sched.SetPeriod(0, cfg.Bridge.StatsInterval)
	}

	var (
		ch   *uart.Channel
		mock *uart.MockPort
	)
	if *mockFlag {
		mock = uart.NewMockPort()
		ch = uart.New(mock, cfg.Serial.RxBufferSize, cfg.Serial.TxBufferSize)
		mock.RxHandler = ch.HandleRxComplete
		mock.TxHandler = ch.HandleTxEmpty
	} else {
		host := uart.NewHostPort(cfg.Serial.Port)
		ch = uart.New(host, cfg.Serial.RxBufferSize, cfg.Serial.TxBufferSize)
		host.RxHandler = ch.HandleRxComplete
		host.TxHandler = ch.HandleTxEmpty
		defer host.Close()
	}

	if err := ch.Init(cfg.Serial.BaudRate); err != nil {
		log.Fatalf("Failed to initialize serial channel: %v", err)
	}
	log.Printf("Bridge up on %s at %d baud (tick %.3fms)",
		portName(cfg, *mockFlag), cfg.Serial.BaudRate,
		params.TickPeriod(cfg.Scheduler.CPUHz)*1000)

	// Read stdin line-wise in the background.
	input := make(chan string)
	go func() {
		defer close(input)
		reader := bufio.NewReader(os.Stdin)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				input <- line
			}
			if err != nil {
				return
			}
		}
	}()

	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, os.Interrupt)

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	var bytesIn, bytesOut uint64
	for {
		select {
		case <-sigC:
			out.Flush()
			log.Printf("Bridge stopped: %d bytes out, %d bytes in, %d dropped, uptime %dms",
				bytesOut, bytesIn, ch.DroppedBytes(), sched.ElapsedMillis())
			return

		case line, ok := <-input:
			if !ok {
				input = nil
				continue
			}
			if mock != nil {
				sendLoopback(ch, mock, line)
			} else {
				ch.SendString(line)
			}
			bytesOut += uint64(len(line))
			if cfg.Bridge.LocalEcho {
				out.WriteString(line)
			}

		case <-ticker.C:
			timer.Fire()

			if mock != nil {
				// Loop the transmitted bytes back onto the receive side.
				mock.DrainTx()
				for _, b := range mock.TakeSent() {
					mock.FireRx(b)
				}
			}

			for ch.BytesAvailable() > 0 {
				out.WriteByte(ch.ReadByte())
				bytesIn++
			}
			out.Flush()

			if sched.CheckAndConsume(0) {
				log.Printf("stats: %d bytes out, %d bytes in, %d pending, %d dropped",
					bytesOut, bytesIn, ch.TxPending(), ch.DroppedBytes())
			}

			// Piped input: leave once everything sent has drained.
			if input == nil && ch.TxPending() == 0 && !ch.TxBusy() && ch.BytesAvailable() == 0 {
				out.Flush()
				log.Printf("Bridge done: %d bytes out, %d bytes in, %d dropped",
					bytesOut, bytesIn, ch.DroppedBytes())
				return
			}
		}
	}
}

// sendLoopback enqueues a line on the mock wire, draining the transmit
// buffer in-line when it fills. The loopback drain runs on this goroutine,
// so SendString's spin-wait would never see the buffer empty here.
func sendLoopback(ch *uart.Channel, mock *uart.MockPort, line string) {
	for i := 0; i < len(line); i++ {
		for !ch.TrySendByte(line[i]) {
			mock.DrainTx()
			for _, b := range mock.TakeSent() {
				mock.FireRx(b)
			}
		}
	}
}

func portName(cfg *config.Config, mock bool) string {
	if mock {
		return "mock loopback"
	}
	return cfg.Serial.Port
}
