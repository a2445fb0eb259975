package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/xtding233/gacha-arena/internal/catalog"
	"github.com/xtding233/gacha-arena/internal/combat"
	"github.com/xtding233/gacha-arena/internal/gacha"
	"github.com/xtding233/gacha-arena/internal/game"
)

func main() {
	log.SetPrefix("[SIMULATE] ")
	log.SetFlags(0)

	var (
		fighter  = flag.String("fighter", "Ginger", "playable profile name")
		opponent = flag.String("opponent", "", "opponent profile name; empty runs every opponent")
		trials   = flag.Int("trials", 10000, "encounters per matchup")
		seed     = flag.Uint64("seed", 0, "rng seed; 0 uses crypto randomness")
		dir      = flag.String("config", "", "config directory with optional catalog.yaml and rules.yaml")
	)
	flag.Parse()

	_, cat, err := game.NewLoader(*dir).Load()
	if err != nil {
		log.Fatal(err)
	}
	me, err := cat.LookupByName(*fighter)
	if err != nil {
		log.Fatal(err)
	}

	var opponents []catalog.FighterProfile
	if *opponent != "" {
		op, err := cat.LookupByName(*opponent)
		if err != nil {
			log.Fatal(err)
		}
		opponents = append(opponents, op)
	} else {
		opponents = cat.Opponents()
	}

	rng := gacha.DefaultRNG()
	if *seed != 0 {
		rng = gacha.NewSeededRNG(*seed)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "opponent\tpower\twin%%\tmean rounds\tstddev\tp50\tp90\tp99\n")
	for _, op := range opponents {
		st, err := combat.RunMonteCarlo(me, op, *trials, rng)
		if err != nil {
			log.Printf("%s vs %s: %v", me.Name, op.Name, err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%.2f\t%.2f\t%.0f\t%.0f\t%.0f\n",
			op.Name, op.PowerLevel, st.WinRate*100, st.Mean, st.StdDev, st.P50, st.P90, st.P99)
	}
	if err := tw.Flush(); err != nil {
		log.Fatal(err)
	}
}
